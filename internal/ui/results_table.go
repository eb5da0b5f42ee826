package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/aidanlsb/broom/internal/fuzzy"
	"github.com/aidanlsb/broom/internal/model"
)

// Alignment represents column text alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// ColumnDef defines a column in a ResultsTable.
type ColumnDef struct {
	Name       string
	WidthRatio float64 // share of the flexible width; 0 means fixed MinWidth
	MinWidth   int
	MaxWidth   int // 0 means no limit
	Align      Alignment
	Style      lipgloss.Style
}

// Standard columns for search results.
var (
	ColNum   = ColumnDef{Name: "num", MinWidth: 4, MaxWidth: 6, Align: AlignRight, Style: Muted}
	ColTitle = ColumnDef{Name: "title", WidthRatio: 0.45, MinWidth: 20, MaxWidth: 60}
	ColID    = ColumnDef{Name: "id", WidthRatio: 0.25, MinWidth: 12, MaxWidth: 36, Style: Accent}
	ColWhere = ColumnDef{Name: "where", WidthRatio: 0.30, MinWidth: 12, MaxWidth: 40, Style: Muted}
	ColScore = ColumnDef{Name: "score", MinWidth: 5, Align: AlignRight, Style: Muted}

	// SearchLayout is [num, title, id, location, score].
	SearchLayout = []ColumnDef{ColNum, ColTitle, ColID, ColWhere, ColScore}
)

// ResultsTable renders ranked search hits in a lipgloss table with row rules.
type ResultsTable struct {
	display *DisplayContext
	columns []ColumnDef
	rows    [][]string
}

// NewResultsTable creates a table with the given display context and column layout.
func NewResultsTable(display *DisplayContext, columns []ColumnDef) *ResultsTable {
	return &ResultsTable{display: display, columns: columns}
}

// AddRow adds a row of already-rendered cells.
func (t *ResultsTable) AddRow(cells ...string) {
	row := make([]string, len(t.columns))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// AddMatches adds one row per search hit, highlighting title matches.
func (t *ResultsTable) AddMatches(hits []model.Numbered[model.SearchMatch]) {
	for _, h := range hits {
		m := h.Item
		title := HighlightField(m.Title, m.Matches, "name")
		where := m.Location
		if where == "" {
			where = m.Kind
		}
		t.AddRow(fmt.Sprintf("%d", h.Num), title, m.ID, where, FormatScore(m.Score))
	}
}

func (t *ResultsTable) calculateWidths() []int {
	widths := make([]int, len(t.columns))

	var totalRatio float64
	var fixedWidth int
	const columnPadding = 2
	for i, col := range t.columns {
		if col.WidthRatio == 0 {
			widths[i] = col.MinWidth
			fixedWidth += widths[i]
		} else {
			totalRatio += col.WidthRatio
		}
	}

	available := t.display.TermWidth - fixedWidth - (len(t.columns)-1)*columnPadding - 2
	available = max(available, 0)

	for i, col := range t.columns {
		if col.WidthRatio == 0 {
			continue
		}
		w := int(float64(available) * col.WidthRatio / totalRatio)
		w = max(w, col.MinWidth)
		if col.MaxWidth > 0 {
			w = min(w, col.MaxWidth)
		}
		widths[i] = w
	}
	return widths
}

// Render generates the table output as a string.
func (t *ResultsTable) Render() string {
	if len(t.rows) == 0 {
		return ""
	}
	widths := t.calculateWidths()

	tbl := table.New().
		Border(lipgloss.Border{
			Top:    "─",
			Bottom: "─",
			Middle: "─",
		}).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderRow(true).
		BorderColumn(false).
		BorderStyle(Muted).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col >= len(t.columns) {
				return lipgloss.NewStyle()
			}
			def := t.columns[col]
			style := def.Style.Width(widths[col])
			if def.Align == AlignRight {
				style = style.Align(lipgloss.Right)
			}
			if col < len(t.columns)-1 {
				style = style.PaddingRight(2)
			}
			return style
		}).
		Rows(t.rows...)

	return tbl.Render()
}

// HighlightField renders text with the spans recorded for field styled as matches.
func HighlightField(text string, spans []fuzzy.Span, field string) string {
	var b strings.Builder
	for _, seg := range fuzzy.Split(text, fuzzy.SpansFor(spans, field)) {
		if seg.Matched {
			b.WriteString(Match.Render(seg.Text))
		} else {
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}

// FormatScore renders a score with two decimals.
func FormatScore(score float64) string {
	return fmt.Sprintf("%.2f", score)
}

// TruncateWithEllipsis shortens s to at most maxLen runes, preferring a word break.
func TruncateWithEllipsis(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	truncated := string(r[:maxLen-3])
	if i := strings.LastIndex(truncated, " "); i > len(truncated)/2 {
		truncated = truncated[:i]
	}
	return truncated + "..."
}
