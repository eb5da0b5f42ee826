package config

import (
	"fmt"
	"math"
	"slices"

	"github.com/aidanlsb/broom/internal/fuzzy"
)

// Search surfaces.
const (
	SiteChecklists = "checklists"
	SiteTemplates  = "templates"
	SiteRooms      = "rooms"
	SiteTasks      = "tasks"
)

// SearchConfig is a [search.<site>] table. Unset values keep the site default.
type SearchConfig struct {
	Fields             []string `toml:"fields,omitempty"`
	Threshold          *float64 `toml:"threshold,omitempty"`
	MinMatchCharLength int      `toml:"min_match_char_length,omitempty"`
	Sort               *bool    `toml:"sort,omitempty"`
}

// Profile is the effective search configuration of one surface.
type Profile struct {
	Site               string
	Fields             []string
	Threshold          float64
	MinMatchCharLength int
	Sort               bool
}

var defaultFields = map[string][]string{
	SiteChecklists: {"name", "client.name", "client.address"},
	SiteTemplates:  {"name", "description"},
	SiteRooms:      {"name", "category"},
	SiteTasks:      {"name", "room"},
}

// ChecklistsThreshold is the default floor for checklist search. A checklist
// hit is scored against its whole name, client or address, which are long
// enough that a one-word query scores under the library default.
const ChecklistsThreshold = 0.2

var defaultThresholds = map[string]float64{
	SiteChecklists: ChecklistsThreshold,
	SiteTemplates:  fuzzy.DefaultThreshold,
	SiteRooms:      fuzzy.DefaultThreshold,
	SiteTasks:      fuzzy.DefaultThreshold,
}

// Checklists are searched over their stored JSON, so any dotted path works
// there. The other surfaces search typed values and accept only these.
var typedFields = map[string][]string{
	SiteTemplates: {"id", "name", "description"},
	SiteRooms:     {"name", "category"},
	SiteTasks:     {"name", "room", "notes"},
}

// Sites lists the configurable search surfaces.
func Sites() []string {
	return []string{SiteChecklists, SiteTemplates, SiteRooms, SiteTasks}
}

// SearchProfile returns the effective settings for site, merging any
// [search.<site>] overrides onto the defaults.
func (c *Config) SearchProfile(site string) Profile {
	p := Profile{
		Site:               site,
		Fields:             slices.Clone(defaultFields[site]),
		Threshold:          fuzzy.DefaultThreshold,
		MinMatchCharLength: fuzzy.DefaultMinMatchCharLength,
		Sort:               true,
	}
	if t, ok := defaultThresholds[site]; ok {
		p.Threshold = t
	}
	if c == nil {
		return p
	}
	sc, ok := c.Search[site]
	if !ok {
		return p
	}
	if len(sc.Fields) > 0 {
		p.Fields = slices.Clone(sc.Fields)
	}
	if sc.Threshold != nil {
		p.Threshold = *sc.Threshold
	}
	if sc.MinMatchCharLength > 0 {
		p.MinMatchCharLength = sc.MinMatchCharLength
	}
	if sc.Sort != nil {
		p.Sort = *sc.Sort
	}
	return p
}

// Options converts the profile to matcher options.
func (p Profile) Options() fuzzy.Options {
	return fuzzy.Options{
		Threshold:          p.Threshold,
		ShouldSort:         p.Sort,
		MinMatchCharLength: p.MinMatchCharLength,
	}
}

func (sc SearchConfig) validate(site string) error {
	if _, ok := defaultFields[site]; !ok {
		return fmt.Errorf("unknown search surface %q (expected one of %v)", site, Sites())
	}
	if sc.Threshold != nil {
		t := *sc.Threshold
		if math.IsNaN(t) || t < 0 || t > 1 {
			return fmt.Errorf("search.%s.threshold must be between 0 and 1, got %v", site, t)
		}
	}
	if sc.MinMatchCharLength < 0 {
		return fmt.Errorf("search.%s.min_match_char_length must not be negative", site)
	}
	allowed, typed := typedFields[site]
	for _, f := range sc.Fields {
		if f == "" {
			return fmt.Errorf("search.%s.fields contains an empty field", site)
		}
		if typed && !slices.Contains(allowed, f) {
			return fmt.Errorf("search.%s: unknown field %q (expected one of %v)", site, f, allowed)
		}
	}
	return nil
}
