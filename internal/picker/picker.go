// Package picker is an interactive fuzzy finder built on Bubble Tea.
//
// Every keystroke starts a new search generation; results that arrive for
// an older generation are dropped, so fast typing never shows stale hits.
package picker

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aidanlsb/broom/internal/fuzzy"
	"github.com/aidanlsb/broom/internal/model"
	"github.com/aidanlsb/broom/internal/ui"
)

const (
	defaultRows = 10
	cacheSize   = 256
)

type resultsMsg[T any] struct {
	gen     uint64
	query   string
	results []fuzzy.Result[T]
}

// Model is the Bubble Tea model. Items are searched through an LRU cache
// over a fixed snapshot.
type Model[T model.Result] struct {
	input   textinput.Model
	cache   *fuzzy.Cache[T]
	gen     *fuzzy.Generation
	title   string
	rows    int
	total   int
	results []fuzzy.Result[T]
	query   string
	cursor  int

	chosen    *T
	cancelled bool
}

// New builds a picker over items. matcher should have IncludeMatches set
// for highlighting.
func New[T model.Result](title string, items []T, matcher *fuzzy.Matcher[T]) (*Model[T], error) {
	cache, err := fuzzy.NewCache(matcher, items, cacheSize)
	if err != nil {
		return nil, err
	}

	in := textinput.New()
	in.Placeholder = "type to filter"
	in.Prompt = "› "
	in.Cursor.SetMode(cursor.CursorStatic)
	in.Focus()

	return &Model[T]{
		input:   in,
		cache:   cache,
		gen:     &fuzzy.Generation{},
		title:   title,
		rows:    defaultRows,
		total:   len(items),
		results: cache.Search(""),
	}, nil
}

// Init implements tea.Model.
func (m *Model[T]) Init() tea.Cmd {
	return nil
}

// search starts a new generation for query and returns the command that
// produces its results.
func (m *Model[T]) search(query string) tea.Cmd {
	gen := m.gen.Next()
	cache := m.cache
	return func() tea.Msg {
		return resultsMsg[T]{gen: gen, query: query, results: cache.Search(query)}
	}
}

// Update implements tea.Model.
func (m *Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultsMsg[T]:
		if !m.gen.Current(msg.gen) {
			return m, nil
		}
		m.results = msg.results
		m.query = msg.query
		m.cursor = min(m.cursor, max(len(m.results)-1, 0))
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			if len(m.results) > 0 {
				item := m.results[m.cursor].Item
				m.chosen = &item
			}
			return m, tea.Quit
		case tea.KeyUp, tea.KeyCtrlP:
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case tea.KeyDown, tea.KeyCtrlN:
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.cursor = 0
		return m, tea.Batch(cmd, m.search(after))
	}
	return m, cmd
}

// View implements tea.Model.
func (m *Model[T]) View() string {
	var b strings.Builder
	if m.title != "" {
		b.WriteString(ui.Header(m.title) + "\n")
	}
	b.WriteString(m.input.View() + "\n")
	b.WriteString(ui.Hint(fmt.Sprintf("  %d/%d", len(m.results), m.total)) + "\n")

	start := 0
	if m.cursor >= m.rows {
		start = m.cursor - m.rows + 1
	}
	end := min(start+m.rows, len(m.results))
	for i := start; i < end; i++ {
		r := m.results[i]
		marker := "  "
		if i == m.cursor {
			marker = ui.Accent.Render("› ")
		}
		line := marker + ui.HighlightField(r.Item.GetContent(), r.Matches, "name")
		if loc := r.Item.GetLocation(); loc != "" {
			line += "  " + ui.Hint(loc)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// Selected returns the chosen item, if any.
func (m *Model[T]) Selected() (T, bool) {
	if m.chosen == nil || m.cancelled {
		var zero T
		return zero, false
	}
	return *m.chosen, true
}

// Run shows the picker on out until an item is chosen or the user cancels.
func Run[T model.Result](ctx context.Context, in io.Reader, out io.Writer, title string, items []T, matcher *fuzzy.Matcher[T]) (T, bool, error) {
	m, err := New(title, items, matcher)
	if err != nil {
		var zero T
		return zero, false, err
	}

	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out))
	if _, err := p.Run(); err != nil {
		var zero T
		return zero, false, fmt.Errorf("picker: %w", err)
	}
	item, ok := m.Selected()
	return item, ok, nil
}
