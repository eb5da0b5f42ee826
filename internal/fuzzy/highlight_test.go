package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighlight(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		query string
		want  string
	}{
		{"preserves case", "Clean the Kitchen", "kitchen", "Clean the <mark>Kitchen</mark>"},
		{"first occurrence only", "mop, then mop again", "MOP", "<mark>mop</mark>, then mop again"},
		{"whole text", "Oven", "oven", "<mark>Oven</mark>"},
		{"not found", "Clean the Kitchen", "garage", "Clean the Kitchen"},
		{"empty query", "Clean the Kitchen", "", "Clean the Kitchen"},
		{"subsequence is not highlighted", "Clean the Kitchen", "ctk", "Clean the Kitchen"},
		{"multibyte offsets", "Crème brûlée pan", "brûlée", "Crème <mark>brûlée</mark> pan"},
		{"empty text", "", "x", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Highlight(tt.text, tt.query, "<mark>", "</mark>"))
		})
	}
}

func TestHighlightSpans(t *testing.T) {
	text := "Wipe oven and oven door"

	t.Run("all spans in one pass", func(t *testing.T) {
		spans := []Span{{Start: 14, End: 18}, {Start: 5, End: 9}}
		assert.Equal(t, "Wipe [oven] and [oven] door", HighlightSpans(text, spans, "[", "]"))
	})

	t.Run("overlaps merged and ranges clamped", func(t *testing.T) {
		spans := []Span{{Start: 0, End: 3}, {Start: 2, End: 4}, {Start: 19, End: 99}, {Start: 8, End: 8}}
		assert.Equal(t, "[Wipe] oven and oven [door]", HighlightSpans(text, spans, "[", "]"))
	})

	t.Run("no spans", func(t *testing.T) {
		assert.Equal(t, text, HighlightSpans(text, nil, "[", "]"))
	})

	t.Run("input spans untouched", func(t *testing.T) {
		spans := []Span{{Start: 14, End: 18}, {Start: 5, End: 9}}
		HighlightSpans(text, spans, "[", "]")
		assert.Equal(t, 14, spans[0].Start)
	})
}

func TestSplit(t *testing.T) {
	segs := Split("Deep clean", []Span{{Start: 5, End: 10}})
	assert.Equal(t, []Segment{{Text: "Deep "}, {Text: "clean", Matched: true}}, segs)

	assert.Equal(t, []Segment{{Text: "Deep"}}, Split("Deep", nil))
	assert.Nil(t, Split("", nil))
}

func TestSpansFor(t *testing.T) {
	spans := []Span{{Field: "name", Start: 0, End: 1}, {Field: "category", Start: 2, End: 3}}
	assert.Equal(t, []Span{{Field: "category", Start: 2, End: 3}}, SpansFor(spans, "category"))
	assert.Equal(t, "category[2:3]", spans[1].String())
}
