package fuzzy

import (
	"slices"
	"strings"
)

// Highlight wraps the first case-insensitive occurrence of query in text with
// openTag and closeTag, keeping the original casing. Text is returned
// unchanged when query is empty or absent.
func Highlight(text, query, openTag, closeTag string) string {
	q := fold(query)
	if len(q) == 0 {
		return text
	}
	start := indexRunes(fold(text), q, 0)
	if start < 0 {
		return text
	}
	return HighlightSpans(text, []Span{{Start: start, End: start + len(q)}}, openTag, closeTag)
}

// HighlightSpans wraps every span of text in openTag/closeTag in one pass over
// the original runes. Span fields are ignored; filter with SpansFor first.
// Out-of-range spans are clamped and overlapping spans merged.
func HighlightSpans(text string, spans []Span, openTag, closeTag string) string {
	runes := []rune(text)
	spans = normalizeSpans(spans, len(runes))
	if len(spans) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + len(spans)*(len(openTag)+len(closeTag)))

	pos := 0
	for _, s := range spans {
		b.WriteString(string(runes[pos:s.Start]))
		b.WriteString(openTag)
		b.WriteString(string(runes[s.Start:s.End]))
		b.WriteString(closeTag)
		pos = s.End
	}
	b.WriteString(string(runes[pos:]))
	return b.String()
}

// Segment is one piece of text produced by Split.
type Segment struct {
	Text    string
	Matched bool
}

// Split cuts text into alternating unmatched/matched segments according to
// spans. Renderers that style segments (instead of injecting tags) use it.
func Split(text string, spans []Span) []Segment {
	runes := []rune(text)
	spans = normalizeSpans(spans, len(runes))
	if len(spans) == 0 {
		if text == "" {
			return nil
		}
		return []Segment{{Text: text}}
	}

	var segs []Segment
	pos := 0
	for _, s := range spans {
		if s.Start > pos {
			segs = append(segs, Segment{Text: string(runes[pos:s.Start])})
		}
		segs = append(segs, Segment{Text: string(runes[s.Start:s.End]), Matched: true})
		pos = s.End
	}
	if pos < len(runes) {
		segs = append(segs, Segment{Text: string(runes[pos:])})
	}
	return segs
}

// normalizeSpans clamps spans to [0, n], drops empty ones, sorts by start and
// merges overlaps. The input slice is not modified.
func normalizeSpans(spans []Span, n int) []Span {
	out := make([]Span, 0, len(spans))
	for _, s := range spans {
		s.Start = max(0, min(s.Start, n))
		s.End = max(0, min(s.End, n))
		if s.End <= s.Start {
			continue
		}
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b Span) int { return a.Start - b.Start })

	merged := out[:0]
	for _, s := range out {
		if k := len(merged) - 1; k >= 0 && s.Start <= merged[k].End {
			merged[k].End = max(merged[k].End, s.End)
			continue
		}
		merged = append(merged, s)
	}
	return merged
}
