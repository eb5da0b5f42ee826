package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
)

// MarkdownRenderMargin is the left margin used for terminal markdown rendering.
const MarkdownRenderMargin = 2

var markdownCodeTheme = "monokai"

// ConfigureMarkdownCodeTheme applies the [ui] code_theme setting.
func ConfigureMarkdownCodeTheme(theme string) {
	if theme = strings.TrimSpace(theme); theme != "" {
		markdownCodeTheme = theme
	}
}

// RenderMarkdown renders an exported checklist for terminal display.
func RenderMarkdown(content string, width int) (string, error) {
	if width <= 0 {
		width = DefaultTermWidth
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(checklistMarkdownStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}

	rendered, err := r.Render(content)
	if err != nil {
		return "", err
	}

	// glamour adds trailing newlines; normalize to a single trailing newline.
	return strings.TrimRight(rendered, "\n") + "\n", nil
}

func checklistMarkdownStyle() ansi.StyleConfig {
	muted := strPtr("8")
	var accent *string
	if color, ok := AccentColor(); ok {
		accent = strPtr(color)
	}

	heading := func(prefix string, underline bool) ansi.StyleBlock {
		return ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{
			Prefix:    prefix,
			Underline: boolPtr(underline),
		}}
	}

	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{BlockPrefix: "\n", BlockSuffix: "\n"},
			Margin:         uintPtr(MarkdownRenderMargin),
		},
		Heading: ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{
			BlockSuffix: "\n",
			Color:       accent,
			Bold:        boolPtr(true),
		}},
		H1:          heading("", true),
		H2:          heading("", false),
		H3:          heading("", false),
		Paragraph:   ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{}},
		List:        ansi.StyleList{LevelIndent: 2},
		Item:        ansi.StylePrimitive{BlockPrefix: "• "},
		Enumeration: ansi.StylePrimitive{BlockPrefix: ". "},
		Task: ansi.StyleTask{
			Ticked:   "[" + SymbolSuccess + "] ",
			Unticked: "[ ] ",
		},
		Emph:   ansi.StylePrimitive{Italic: boolPtr(true), Color: muted},
		Strong: ansi.StylePrimitive{Bold: boolPtr(true)},
		HorizontalRule: ansi.StylePrimitive{
			Color:  muted,
			Format: "\n--------\n",
		},
		Code: ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Color: accent}},
		CodeBlock: ansi.StyleCodeBlock{
			StyleBlock: ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Color: muted}},
			Theme:      markdownCodeTheme,
		},
		Table: ansi.StyleTable{
			CenterSeparator: strPtr("│"),
			ColumnSeparator: strPtr("│"),
			RowSeparator:    strPtr("─"),
		},
	}
}

func boolPtr(v bool) *bool { return &v }

func strPtr(v string) *string { return &v }

func uintPtr(v uint) *uint { return &v }
