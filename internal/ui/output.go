package ui

import (
	"fmt"
	"strings"

	"github.com/aidanlsb/broom/internal/model"
)

// Unicode symbols for status indicators
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolInfo    = "ℹ"
)

// Success returns a success message with checkmark symbol
func Success(msg string) string {
	return fmt.Sprintf("%s %s", SymbolSuccess, msg)
}

// Successf returns a formatted success message with checkmark symbol
func Successf(format string, args ...any) string {
	return Success(fmt.Sprintf(format, args...))
}

// Error returns an error message with X symbol
func Error(msg string) string {
	return fmt.Sprintf("%s %s", SymbolError, msg)
}

// Errorf returns a formatted error message with X symbol
func Errorf(format string, args ...any) string {
	return Error(fmt.Sprintf(format, args...))
}

// Warning returns a warning message with warning symbol
func Warning(msg string) string {
	return fmt.Sprintf("%s %s", SymbolWarning, msg)
}

// Warningf returns a formatted warning message with warning symbol
func Warningf(format string, args ...any) string {
	return Warning(fmt.Sprintf(format, args...))
}

// Infof returns a formatted info message with info symbol
func Infof(format string, args ...any) string {
	return fmt.Sprintf("%s %s", SymbolInfo, fmt.Sprintf(format, args...))
}

// Header returns a styled section header
func Header(msg string) string {
	return Bold.Render(msg)
}

// ID returns an accent-styled identifier
func ID(id string) string {
	return Accent.Render(id)
}

// Hint returns muted hint text
func Hint(msg string) string {
	return Muted.Render(msg)
}

// Count returns a styled count badge (e.g., "(3 tasks)")
func Count(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("(%d %s)", n, singular)
	}
	return fmt.Sprintf("(%d %s)", n, plural)
}

// Checkbox renders a task line marker.
func Checkbox(done bool) string {
	if done {
		return "[" + SymbolSuccess + "]"
	}
	return "[ ]"
}

// TaskLine renders a numbered task, struck through when done.
func TaskLine(num int, t model.Task) string {
	name := t.Name
	if t.Done {
		name = Done.Render(name)
	}
	line := fmt.Sprintf("%s %s %s", Muted.Render(fmt.Sprintf("%3d", num)), Checkbox(t.Done), name)
	if t.Notes != "" {
		line += " " + Hint("("+t.Notes+")")
	}
	return line
}

// ProgressBar draws completion as a fixed-width bar followed by the counts.
func ProgressBar(p model.Progress, width int) string {
	if width < 1 {
		width = 20
	}
	filled := 0
	if p.Total > 0 {
		filled = p.Done * width / p.Total
	}
	bar := Accent.Render(strings.Repeat("█", filled)) + Muted.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %s", bar, p)
}
