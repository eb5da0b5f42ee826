package fuzzy

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Span is a half-open rune range [Start, End) inside one field's original text.
//
// Spans are only produced for contiguous matches. A field that matched as a
// subsequence contributes a score but no span.
type Span struct {
	Field string `json:"field"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Result pairs an item with its aggregate score.
type Result[T any] struct {
	Item T
	// Index is the item's position in the searched slice.
	Index int
	Score float64
	// Matches is set only when Options.IncludeMatches is true. Spans are
	// grouped by field in field order and sorted by Start within a field.
	Matches []Span
}

// Stats describes one search run.
type Stats struct {
	Duration time.Duration
	Scanned  int
	Matched  int
	// Filtered is false when the query was too short to filter.
	Filtered bool
}

// Matcher scores items against queries through a fixed set of fields.
type Matcher[T any] struct {
	fields []Field[T]
	opts   Options
}

// NewMatcher validates fields and clamps opts. With no fields the matcher
// searches DefaultField.
func NewMatcher[T any](fields []Field[T], opts Options) (*Matcher[T], error) {
	if len(fields) == 0 {
		fields = []Field[T]{DefaultField[T]()}
	}
	for _, f := range fields {
		if err := f.validate(); err != nil {
			return nil, err
		}
	}
	return &Matcher[T]{
		fields: slices.Clone(fields),
		opts:   opts.normalized(),
	}, nil
}

// SearchCollection is the one-shot form of NewMatcher followed by Search.
func SearchCollection[T any](items []T, query string, fields []Field[T], opts Options) ([]Result[T], error) {
	m, err := NewMatcher(fields, opts)
	if err != nil {
		return nil, err
	}
	return m.Search(query, items), nil
}

// Options returns the effective (clamped) options.
func (m *Matcher[T]) Options() Options {
	return m.opts
}

// Fields returns the names of the searched fields in order.
func (m *Matcher[T]) Fields() []string {
	names := make([]string, len(m.fields))
	for i, f := range m.fields {
		names[i] = f.Name
	}
	return names
}

// Search filters and ranks items against query.
func (m *Matcher[T]) Search(query string, items []T) []Result[T] {
	results, _ := m.SearchWithStats(query, items)
	return results
}

// SearchWithStats is Search plus timing diagnostics.
func (m *Matcher[T]) SearchWithStats(query string, items []T) ([]Result[T], Stats) {
	start := time.Now()

	q, ok := m.prepare(query)
	if !ok {
		results := passthrough(items)
		stats := Stats{Duration: time.Since(start), Scanned: len(items), Matched: len(results)}
		m.logStats(query, stats)
		return results, stats
	}

	results := m.scoreRange(context.Background(), q, items, 0)
	m.finish(results)

	stats := Stats{
		Duration: time.Since(start),
		Scanned:  len(items),
		Matched:  len(results),
		Filtered: true,
	}
	m.logStats(query, stats)
	return results, stats
}

// ScoreItem returns the item's aggregate score: the best score across fields.
func (m *Matcher[T]) ScoreItem(query string, item T) float64 {
	q := fold(strings.TrimSpace(query))
	best := 0.0
	for _, f := range m.fields {
		if s := scoreFolded(q, fold(f.Get(item))); s > best {
			best = s
		}
	}
	return best
}

// prepare trims and folds the query. ok is false when the query is too short
// to filter.
func (m *Matcher[T]) prepare(query string) ([]rune, bool) {
	q := fold(strings.TrimSpace(query))
	if len(q) < m.opts.MinMatchCharLength {
		return nil, false
	}
	return q, true
}

func passthrough[T any](items []T) []Result[T] {
	results := make([]Result[T], len(items))
	for i, item := range items {
		results[i] = Result[T]{Item: item, Index: i}
	}
	return results
}

// scoreRange scores items, reporting indexes offset by base. It stops early
// (returning what it has) when ctx is done; callers check ctx themselves.
func (m *Matcher[T]) scoreRange(ctx context.Context, q []rune, items []T, base int) []Result[T] {
	var results []Result[T]
	for i, item := range items {
		if i%256 == 0 && ctx.Err() != nil {
			return results
		}
		if r, ok := m.scoreOne(q, item); ok {
			r.Index = base + i
			results = append(results, r)
		}
	}
	return results
}

func (m *Matcher[T]) scoreOne(q []rune, item T) (Result[T], bool) {
	best := 0.0
	var spans []Span

	for _, f := range m.fields {
		raw := []rune(f.Get(item))
		text := foldRunes(raw)
		s := scoreFolded(q, text)
		if s > best {
			best = s
		}
		if m.opts.IncludeMatches && s > 0 && s >= m.opts.Threshold {
			for _, start := range occurrences(text, q) {
				spans = append(spans, Span{Field: f.Name, Start: start, End: start + len(q)})
			}
		}
	}

	if best < m.opts.Threshold {
		return Result[T]{}, false
	}
	return Result[T]{Item: item, Score: best, Matches: spans}, true
}

func (m *Matcher[T]) finish(results []Result[T]) {
	if !m.opts.ShouldSort {
		return
	}
	slices.SortStableFunc(results, func(a, b Result[T]) int {
		return cmp.Compare(b.Score, a.Score)
	})
}

func (m *Matcher[T]) logStats(query string, stats Stats) {
	if m.opts.Logger == nil {
		return
	}
	m.opts.Logger.Debug("fuzzy search",
		"query", query,
		"fields", strings.Join(m.Fields(), ","),
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"filtered", stats.Filtered,
		"duration", stats.Duration,
	)
}

// SpansFor returns the spans that belong to field.
func SpansFor(spans []Span, field string) []Span {
	var out []Span
	for _, s := range spans {
		if s.Field == field {
			out = append(out, s)
		}
	}
	return out
}

func (s Span) String() string {
	return fmt.Sprintf("%s[%d:%d]", s.Field, s.Start, s.End)
}
