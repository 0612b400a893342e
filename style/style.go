// Package style wraps lipgloss into small render functions for CLI and TUI text.
package style

import "github.com/charmbracelet/lipgloss"

// New returns an empty lipgloss.Style.
func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

func colored(fg, bg lipgloss.Color) lipgloss.Style {
	return New().Foreground(fg).Background(bg)
}

// Fg returns a function rendering its input in c.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return colored(c, "").Render(s) }
}

// Truncate returns a function constraining its input to max cells.
func Truncate(max int) func(string) string {
	return func(s string) string { return New().Width(max).Render(s) }
}

var (
	Faint = func(s string) string { return New().Faint(true).Render(s) }
	Bold  = func(s string) string { return New().Bold(true).Render(s) }
)

// Title renders a view heading.
var Title = func(s string) string {
	return colored(Base, AccentColor).Padding(0, 1).Render(s)
}

// ErrorTitle renders the heading of the error view.
var ErrorTitle = func(s string) string {
	return colored(Base, ErrorColor).Padding(0, 1).Render(s)
}
