package model

// Numbered wraps any Result with a 1-indexed number so list output can be
// referenced by position (`broom check weekly-clean 3`).
type Numbered[T Result] struct {
	Num  int `json:"num"`
	Item T   `json:"item"`
}

func (n Numbered[T]) GetID() string       { return n.Item.GetID() }
func (n Numbered[T]) GetKind() string     { return n.Item.GetKind() }
func (n Numbered[T]) GetContent() string  { return n.Item.GetContent() }
func (n Numbered[T]) GetLocation() string { return n.Item.GetLocation() }

// NumberedList converts a slice of results to numbered results.
func NumberedList[T Result](items []T) []Numbered[T] {
	out := make([]Numbered[T], len(items))
	for i, item := range items {
		out[i] = Numbered[T]{Num: i + 1, Item: item}
	}
	return out
}
