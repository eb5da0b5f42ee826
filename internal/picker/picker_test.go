package picker

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/broom/internal/fuzzy"
	"github.com/aidanlsb/broom/internal/model"
)

func rooms() []model.Room {
	return []model.Room{
		{Name: "Kitchen", Category: "kitchen"},
		{Name: "Bathroom", Category: "bathroom"},
		{Name: "Half Bath", Category: "bathroom"},
		{Name: "Garage", Category: "exterior"},
	}
}

func newPicker(t *testing.T) *Model[model.Room] {
	t.Helper()
	m, err := fuzzy.NewMatcher([]fuzzy.Field[model.Room]{
		fuzzy.Func("name", func(r model.Room) string { return r.Name }),
	}, fuzzy.Options{Threshold: 0.3, ShouldSort: true, IncludeMatches: true})
	require.NoError(t, err)

	p, err := New("Rooms", rooms(), m)
	require.NoError(t, err)
	return p
}

// typeText feeds runes through Update and runs the resulting search commands.
func typeText(t *testing.T, p *Model[model.Room], s string) {
	t.Helper()
	for _, r := range s {
		_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		deliver(p, cmd)
	}
}

func deliver(p *Model[model.Room], cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			deliver(p, c)
		}
	case resultsMsg[model.Room]:
		p.Update(msg)
	}
}

func TestPickerStartsWithEveryItem(t *testing.T) {
	p := newPicker(t)
	assert.Len(t, p.results, 4)
	assert.Contains(t, p.View(), "4/4")
}

func TestPickerFiltersAndSelects(t *testing.T) {
	p := newPicker(t)
	typeText(t, p, "bath")

	require.Len(t, p.results, 2)
	assert.Equal(t, "Bathroom", p.results[0].Item.Name)
	assert.Equal(t, "Half Bath", p.results[1].Item.Name)

	p.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	got, ok := p.Selected()
	require.True(t, ok)
	assert.Equal(t, "Half Bath", got.Name)
}

func TestPickerDropsStaleResults(t *testing.T) {
	p := newPicker(t)

	first := p.search("garage")
	second := p.search("kitchen")

	p.Update(second())
	p.Update(first())

	require.Len(t, p.results, 1)
	assert.Equal(t, "Kitchen", p.results[0].Item.Name)
	assert.Equal(t, "kitchen", p.query)
}

func TestPickerCancel(t *testing.T) {
	p := newPicker(t)
	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_, ok := p.Selected()
	assert.False(t, ok)
}

func TestPickerCursorBounds(t *testing.T) {
	p := newPicker(t)
	p.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, p.cursor)
	for i := 0; i < 10; i++ {
		p.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, 3, p.cursor)

	typeText(t, p, "garage")
	assert.Equal(t, 0, p.cursor)
	view := p.View()
	assert.True(t, strings.Contains(view, "1/4"), view)
}
