package fuzzy

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrInvalidField is returned by NewMatcher for a field without a name or accessor.
var ErrInvalidField = errors.New("fuzzy: invalid field")

// Field reads one searchable string out of an item.
type Field[T any] struct {
	// Name identifies the field in spans, e.g. "client.name".
	Name string

	// Get returns the field's text. It must not panic; return "" for
	// missing values.
	Get func(T) string
}

// Func builds a typed field.
func Func[T any](name string, get func(T) string) Field[T] {
	return Field[T]{Name: name, Get: get}
}

// DefaultField renders the whole item with fmt.Sprint. NewMatcher falls back
// to it when no fields are configured.
func DefaultField[T any]() Field[T] {
	return Field[T]{
		Name: "value",
		Get:  func(item T) string { return fmt.Sprint(item) },
	}
}

// Adapt reuses a field defined on U for items of type T.
func Adapt[T, U any](f Field[U], via func(T) U) Field[T] {
	get := f.Get
	return Field[T]{
		Name: f.Name,
		Get:  func(item T) string { return get(via(item)) },
	}
}

func (f Field[T]) validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidField)
	}
	if f.Get == nil {
		return fmt.Errorf("%w: %q has no accessor", ErrInvalidField, f.Name)
	}
	return nil
}

// PathField resolves a dotted path ("client.name") through nested maps.
func PathField(path string) Field[map[string]any] {
	return Field[map[string]any]{
		Name: path,
		Get: func(doc map[string]any) string {
			s, _ := Lookup(doc, path)
			return s
		},
	}
}

// Lookup walks a dotted path through nested maps and returns the leaf as text.
// Missing segments and composite leaves report ok=false and "".
func Lookup(doc map[string]any, path string) (string, bool) {
	if doc == nil || path == "" {
		return "", false
	}

	var cur any = doc
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return "", false
			}
			cur = next
		case map[string]string:
			next, ok := node[seg]
			if !ok {
				return "", false
			}
			cur = next
		default:
			return "", false
		}
	}
	return stringify(cur)
}

func stringify(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case fmt.Stringer:
		return val.String(), true
	case bool:
		return strconv.FormatBool(val), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case int32:
		return strconv.FormatInt(int64(val), 10), true
	case uint:
		return strconv.FormatUint(uint64(val), 10), true
	case uint64:
		return strconv.FormatUint(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	default:
		return "", false
	}
}

// JSONField resolves a gjson path inside a raw JSON document. Strings and
// scalars resolve to their text; objects, arrays, null and missing paths
// resolve to "".
func JSONField(path string) Field[[]byte] {
	return Field[[]byte]{
		Name: path,
		Get: func(doc []byte) string {
			if len(doc) == 0 {
				return ""
			}
			res := gjson.GetBytes(doc, path)
			switch res.Type {
			case gjson.String, gjson.Number, gjson.True, gjson.False:
				return res.String()
			default:
				return ""
			}
		},
	}
}
