package fuzzy

import (
	"log/slog"
	"math"
)

// Defaults applied by DefaultOptions and by clamping.
const (
	DefaultThreshold          = 0.3
	DefaultMinMatchCharLength = 1
)

// Options configures a Matcher.
type Options struct {
	// Threshold is the minimum aggregate score an item needs to be kept.
	// Values outside [0, 1] are clamped; NaN becomes DefaultThreshold.
	Threshold float64

	// ShouldSort stable-sorts results by descending score.
	ShouldSort bool

	// IncludeMatches attaches highlight spans to each result.
	IncludeMatches bool

	// MinMatchCharLength is the shortest query (in runes, trimmed) that
	// filters. Shorter queries return every item unscored.
	MinMatchCharLength int

	// Logger receives per-search timing at debug level. Nil disables it.
	Logger *slog.Logger
}

// DefaultOptions returns the options used by broom's search surfaces.
func DefaultOptions() Options {
	return Options{
		Threshold:          DefaultThreshold,
		ShouldSort:         true,
		MinMatchCharLength: DefaultMinMatchCharLength,
	}
}

// normalized returns a copy with every value inside its valid range.
func (o Options) normalized() Options {
	switch {
	case math.IsNaN(o.Threshold):
		o.Threshold = DefaultThreshold
	case o.Threshold < 0:
		o.Threshold = 0
	case o.Threshold > 1:
		o.Threshold = 1
	}
	if o.MinMatchCharLength < 1 {
		o.MinMatchCharLength = DefaultMinMatchCharLength
	}
	return o
}
