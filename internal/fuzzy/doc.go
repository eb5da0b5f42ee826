// Package fuzzy scores, filters and ranks items against a free-text query.
//
// It backs every search surface in broom: checklists, templates, rooms and
// tasks. Matching is case-insensitive and works on runes, so offsets reported
// in spans line up with the original text.
//
// # Scoring
//
// Score grades a single query/text pair into three tiers:
//
//   - 1.0 when the texts are equal ignoring case
//   - 0.8 * |query|/|text| when text contains query contiguously
//   - 0.6 * matched/|text| for an ordered, non-contiguous subsequence scan
//
// Shorter texts therefore win within a tier, and a tier never outranks the
// one above it for the same query and text.
//
// # Searching
//
// A Matcher is built from a list of fields and Options. Each item's score is
// the best score across its fields. Items below Options.Threshold are
// dropped, and the rest are optionally stable-sorted by descending score:
//
//	m, err := fuzzy.NewMatcher([]fuzzy.Field[model.Checklist]{
//	    fuzzy.Func("name", func(c model.Checklist) string { return c.Name }),
//	    fuzzy.Func("client.name", func(c model.Checklist) string { return c.Client.Name }),
//	}, fuzzy.DefaultOptions())
//	results := m.Search("kitchen", checklists)
//
// Dynamic records can be searched with PathField (nested maps) or JSONField
// (raw JSON documents, gjson path syntax).
//
// # Highlighting
//
// Highlight wraps the first case-insensitive occurrence of a query. When
// Options.IncludeMatches is set, results carry one Span per contiguous
// occurrence and HighlightSpans renders them in a single pass. Subsequence
// matches carry no spans.
//
// # Concurrency
//
// A Matcher is immutable after construction and safe for concurrent use.
// SearchParallel fans scoring out over worker goroutines and returns the
// same ordering as Search.
package fuzzy
