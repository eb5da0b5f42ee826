package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
// - Default (white/black): Primary text
// - Accent (soft purple #A78BFA): Highlights, ids, match spans
// - Muted (gray): Secondary info, scores, addresses
// - No colored success/error/warning - use unicode symbols only

const defaultAccent = "#A78BFA"

var accentColor = defaultAccent

var (
	// Accent style for ids, headers and interactive elements
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent))

	// Muted style for secondary info and hints
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent)).Bold(true)

	// Match marks the matched part of a search hit
	Match = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent)).Bold(true).Underline(true)

	// Done renders completed tasks
	Done = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")).Strikethrough(true)
)

// ConfigureTheme applies the [ui] accent setting. "none", "off" and
// "default" (or an invalid value) remove the accent color.
func ConfigureTheme(accent string) {
	color, ok := normalizeAccentColor(accent)
	if !ok {
		accentColor = ""
		Accent = lipgloss.NewStyle()
		AccentBold = lipgloss.NewStyle().Bold(true)
		Match = lipgloss.NewStyle().Bold(true).Underline(true)
		return
	}
	accentColor = color
	c := lipgloss.Color(color)
	Accent = lipgloss.NewStyle().Foreground(c)
	AccentBold = lipgloss.NewStyle().Foreground(c).Bold(true)
	Match = lipgloss.NewStyle().Foreground(c).Bold(true).Underline(true)
}

// AccentColor returns the configured accent color, if any.
func AccentColor() (string, bool) {
	return accentColor, accentColor != ""
}

// normalizeAccentColor accepts ANSI codes 0-255 and #RGB/#RRGGBB hex colors.
func normalizeAccentColor(s string) (string, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "", "none", "off", "default":
		return "", false
	}

	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) == 3 {
			hex = fmt.Sprintf("%c%c%c%c%c%c", hex[0], hex[0], hex[1], hex[1], hex[2], hex[2])
		}
		if len(hex) != 6 {
			return "", false
		}
		if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
			return "", false
		}
		return "#" + hex, true
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 255 {
		return "", false
	}
	return strconv.Itoa(n), true
}
