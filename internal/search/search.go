// Package search wires the fuzzy matcher to broom's search surfaces:
// saved checklists, templates, the room library and the task library.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"

	"github.com/aidanlsb/broom/internal/catalog"
	"github.com/aidanlsb/broom/internal/config"
	"github.com/aidanlsb/broom/internal/fuzzy"
	"github.com/aidanlsb/broom/internal/model"
	"github.com/aidanlsb/broom/internal/store"
)

// Settings applies to every matcher built by this package.
type Settings struct {
	Logger         *slog.Logger
	IncludeMatches bool
}

var templateFields = map[string]func(model.Template) string{
	"id":          func(t model.Template) string { return t.ID },
	"name":        func(t model.Template) string { return t.Name },
	"description": func(t model.Template) string { return t.Description },
}

var roomFields = map[string]func(model.Room) string{
	"name":     func(r model.Room) string { return r.Name },
	"category": func(r model.Room) string { return r.Category },
}

var taskFields = map[string]func(model.Task) string{
	"name":  func(t model.Task) string { return t.Name },
	"room":  func(t model.Task) string { return t.Room },
	"notes": func(t model.Task) string { return t.Notes },
}

func typedFields[T any](site string, names []string, known map[string]func(T) string) ([]fuzzy.Field[T], error) {
	fields := make([]fuzzy.Field[T], 0, len(names))
	for _, name := range names {
		get, ok := known[name]
		if !ok {
			return nil, fmt.Errorf("%s search: unknown field %q", site, name)
		}
		fields = append(fields, fuzzy.Func(name, get))
	}
	return fields, nil
}

func options(p config.Profile, s Settings) fuzzy.Options {
	opts := p.Options()
	opts.IncludeMatches = s.IncludeMatches
	opts.Logger = s.Logger
	return opts
}

// Templates builds the template matcher for profile p.
func Templates(p config.Profile, s Settings) (*fuzzy.Matcher[model.Template], error) {
	fields, err := typedFields(p.Site, p.Fields, templateFields)
	if err != nil {
		return nil, err
	}
	return fuzzy.NewMatcher(fields, options(p, s))
}

// Rooms builds the room matcher for profile p.
func Rooms(p config.Profile, s Settings) (*fuzzy.Matcher[model.Room], error) {
	fields, err := typedFields(p.Site, p.Fields, roomFields)
	if err != nil {
		return nil, err
	}
	return fuzzy.NewMatcher(fields, options(p, s))
}

// Tasks builds the task matcher for profile p.
func Tasks(p config.Profile, s Settings) (*fuzzy.Matcher[model.Task], error) {
	fields, err := typedFields(p.Site, p.Fields, taskFields)
	if err != nil {
		return nil, err
	}
	return fuzzy.NewMatcher(fields, options(p, s))
}

// Checklists builds a matcher over stored checklist JSON. Field names are
// dotted paths into the document, so any stored attribute is searchable.
func Checklists(p config.Profile, s Settings) (*fuzzy.Matcher[store.Document], error) {
	fields := make([]fuzzy.Field[store.Document], 0, len(p.Fields))
	for _, path := range p.Fields {
		fields = append(fields, fuzzy.Adapt(fuzzy.JSONField(path), func(d store.Document) []byte { return d.Body }))
	}
	return fuzzy.NewMatcher(fields, options(p, s))
}

// Hits converts matcher results into display-ready search matches.
func Hits[T model.Result](results []fuzzy.Result[T]) []model.SearchMatch {
	out := make([]model.SearchMatch, len(results))
	for i, r := range results {
		out[i] = model.SearchMatch{
			Kind:     r.Item.GetKind(),
			ID:       r.Item.GetID(),
			Title:    r.Item.GetContent(),
			Location: r.Item.GetLocation(),
			Score:    r.Score,
			Matches:  r.Matches,
		}
	}
	return out
}

// Engine runs searches across every surface with the configured profiles.
type Engine struct {
	cfg      *config.Config
	store    *store.Store
	catalog  *catalog.Catalog
	settings Settings
}

// NewEngine creates an engine. st may be nil when only the built-in
// catalog should be searched.
func NewEngine(cfg *config.Config, st *store.Store, cat *catalog.Catalog, s Settings) *Engine {
	return &Engine{cfg: cfg, store: st, catalog: cat, settings: s}
}

// Search ranks the items of one surface against query.
func (e *Engine) Search(ctx context.Context, site, query string) ([]model.SearchMatch, error) {
	p := e.cfg.SearchProfile(site)
	switch site {
	case config.SiteChecklists:
		if e.store == nil {
			return nil, nil
		}
		docs, err := e.store.ChecklistDocuments(store.ListFilter{})
		if err != nil {
			return nil, err
		}
		m, err := Checklists(p, e.settings)
		if err != nil {
			return nil, err
		}
		results, err := m.SearchParallel(ctx, query, docs, runtime.GOMAXPROCS(0))
		if err != nil {
			return nil, err
		}
		return Hits(results), nil

	case config.SiteTemplates:
		items, err := e.AllTemplates()
		if err != nil {
			return nil, err
		}
		m, err := Templates(p, e.settings)
		if err != nil {
			return nil, err
		}
		return Hits(m.Search(query, items)), nil

	case config.SiteRooms:
		m, err := Rooms(p, e.settings)
		if err != nil {
			return nil, err
		}
		return Hits(m.Search(query, e.catalog.Rooms())), nil

	case config.SiteTasks:
		m, err := Tasks(p, e.settings)
		if err != nil {
			return nil, err
		}
		return Hits(m.Search(query, e.catalog.Tasks())), nil
	}
	return nil, fmt.Errorf("unknown search surface %q (expected one of %v)", site, config.Sites())
}

// AllTemplates returns the built-in templates followed by saved ones. A
// saved template shadows a built-in with the same ID.
func (e *Engine) AllTemplates() ([]model.Template, error) {
	var saved []model.Template
	if e.store != nil {
		var err error
		if saved, err = e.store.ListTemplates(); err != nil {
			return nil, err
		}
	}
	out := make([]model.Template, 0, len(saved))
	for _, t := range e.catalog.Templates() {
		if !slices.ContainsFunc(saved, func(s model.Template) bool { return s.ID == t.ID }) {
			out = append(out, t)
		}
	}
	return append(out, saved...), nil
}
