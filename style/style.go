// Package style provides a functional API for composing lipgloss styles used by the CLI and the status panel.
package style

import "github.com/charmbracelet/lipgloss"

// New returns an empty lipgloss.Style.
func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Fg returns a rendering function that applies the foreground color c.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return New().Foreground(c).Render(s) }
}

// Tag returns a rendering function that wraps a string in a padded, colored block.
func Tag(fg, bg lipgloss.Color) func(string) string {
	return func(s string) string { return New().Foreground(fg).Background(bg).Padding(0, 1).Render(s) }
}

var (
	Faint = func(s string) string { return New().Faint(true).Render(s) }
	Bold  = func(s string) string { return New().Bold(true).Render(s) }
)

// Title renders a section banner.
var Title = Tag(Base, AccentColor)

// ErrorTitle renders a banner in the error color.
var ErrorTitle = Tag(Base, ErrorColor)
