package model

import "github.com/aidanlsb/broom/internal/fuzzy"

// SearchMatch is one ranked hit from any search surface.
type SearchMatch struct {
	Kind     string  `json:"kind"`
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Location string  `json:"location,omitempty"`
	Score    float64 `json:"score"`

	// Matches holds contiguous match spans when highlighting was requested.
	Matches []fuzzy.Span `json:"matches,omitempty"`
}

func (s SearchMatch) GetID() string       { return s.ID }
func (s SearchMatch) GetKind() string     { return s.Kind }
func (s SearchMatch) GetContent() string  { return s.Title }
func (s SearchMatch) GetLocation() string { return s.Location }
