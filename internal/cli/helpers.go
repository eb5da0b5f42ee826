package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aidanlsb/broom/internal/catalog"
	"github.com/aidanlsb/broom/internal/config"
	"github.com/aidanlsb/broom/internal/fuzzy"
	"github.com/aidanlsb/broom/internal/model"
	"github.com/aidanlsb/broom/internal/search"
	"github.com/aidanlsb/broom/internal/store"
)

// now is the clock used for task and checklist timestamps.
var now = time.Now

func searchSettings() search.Settings {
	return search.Settings{Logger: logger, IncludeMatches: true}
}

// newEngine builds a search engine over the database and built-in catalog.
func newEngine() (*search.Engine, error) {
	cat, err := catalog.Default()
	if err != nil {
		return nil, err
	}
	st, err := getStore()
	if err != nil {
		return nil, err
	}
	return search.NewEngine(getConfig(), st, cat, searchSettings()), nil
}

// loadChecklist fetches a checklist by ID. When the ID is unknown the
// error carries a suggestion from a fuzzy search over saved checklists.
func loadChecklist(ctx context.Context, id string) (*model.Checklist, error) {
	st, err := getStore()
	if err != nil {
		return nil, handleError(ErrDatabaseError, err, "")
	}
	c, err := st.GetChecklist(id)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, handleStoreError(ErrChecklistNotFound, err, "")
	}

	suggestion := "Run 'broom list' to see saved checklists"
	if best := closestChecklist(ctx, id); best != "" {
		suggestion = didYouMean(best)
	}
	return nil, handleErrorMsg(ErrChecklistNotFound, fmt.Sprintf("checklist not found: %s", id), suggestion)
}

func closestChecklist(ctx context.Context, ref string) string {
	engine, err := newEngine()
	if err != nil {
		return ""
	}
	hits, err := engine.Search(ctx, config.SiteChecklists, ref)
	if err != nil || len(hits) == 0 {
		return ""
	}
	return hits[0].ID
}

// loadTemplate resolves a built-in or saved template by ID.
func loadTemplate(ctx context.Context, id string) (*model.Template, error) {
	engine, err := newEngine()
	if err != nil {
		return nil, handleError(ErrDatabaseError, err, "")
	}
	all, err := engine.AllTemplates()
	if err != nil {
		return nil, handleStoreError(ErrTemplateNotFound, err, "")
	}
	for _, t := range all {
		if t.ID == id {
			return &t, nil
		}
	}

	suggestion := "Run 'broom template list' to see available templates"
	if hits, err := engine.Search(ctx, config.SiteTemplates, id); err == nil && len(hits) > 0 {
		suggestion = didYouMean(hits[0].ID)
	}
	return nil, handleErrorMsg(ErrTemplateNotFound, fmt.Sprintf("template not found: %s", id), suggestion)
}

// resolveTask finds a task by ID or position, then by fuzzy name match
// against the checklist's own tasks. A tie for the best score is ambiguous.
func resolveTask(c *model.Checklist, ref string) (*model.Task, error) {
	if t, err := c.Task(ref); err == nil {
		return t, nil
	}

	m, err := search.Tasks(getConfig().SearchProfile(config.SiteTasks), searchSettings())
	if err != nil {
		return nil, handleError(ErrConfigInvalid, err, "")
	}
	hits := m.Search(ref, c.AllTasks())
	switch {
	case len(hits) == 0 || strings.TrimSpace(ref) == "":
		return nil, handleErrorMsg(ErrTaskNotFound,
			fmt.Sprintf("no task matching '%s' in %s", ref, c.ID),
			fmt.Sprintf("Run 'broom show %s' to list task numbers", c.ID))
	case len(hits) > 1 && hits[1].Score == hits[0].Score:
		var names []string
		for _, h := range hits {
			if h.Score != hits[0].Score {
				break
			}
			names = append(names, fmt.Sprintf("%s (%s)", h.Item.Name, h.Item.ID))
		}
		return nil, handleErrorWithDetails(ErrTaskAmbiguous,
			fmt.Sprintf("'%s' matches several tasks equally well", ref),
			"Use the task number or ID instead",
			map[string]interface{}{"candidates": names})
	}
	return c.Task(hits[0].Item.ID)
}

// checklistSummary is the JSON shape for list-style output.
func checklistSummary(c *model.Checklist) map[string]interface{} {
	p := c.Progress()
	return map[string]interface{}{
		"id":         c.ID,
		"name":       c.Name,
		"client":     c.Client.Name,
		"status":     c.Status,
		"progress":   p,
		"percent":    p.Percent(),
		"updated_at": c.UpdatedAt,
	}
}

func formatMatches(hits []model.SearchMatch) []map[string]interface{} {
	formatted := make([]map[string]interface{}, len(hits))
	for i, h := range hits {
		spans := h.Matches
		if spans == nil {
			spans = []fuzzy.Span{}
		}
		formatted[i] = map[string]interface{}{
			"kind":     h.Kind,
			"id":       h.ID,
			"title":    h.Title,
			"location": h.Location,
			"score":    h.Score,
			"matches":  spans,
		}
	}
	return formatted
}
