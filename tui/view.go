package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/glint-player/glint/icon"
	"github.com/glint-player/glint/player"
	"github.com/glint-player/glint/style"
	"github.com/glint-player/glint/util"
	"github.com/muesli/reflow/truncate"
)

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

func stateIcon(s player.State) string {
	switch s {
	case player.StatePlaying:
		return icon.Get(icon.Playing)
	case player.StatePaused:
		return icon.Get(icon.Paused)
	default:
		return icon.Get(icon.Stopped)
	}
}

func (b *bubble) View() string {
	title := b.status.Title
	if title == "" {
		title = "Nothing playing"
	}
	if b.width > 0 {
		title = truncate.StringWithTail(title, uint(b.width), "…")
	}

	header := style.Title(b.status.State.String())
	if glyph := stateIcon(b.status.State); glyph != "" {
		header = glyph + " " + header
	}

	position := fmt.Sprintf("%s / %s", util.FormatSeconds(b.status.Position), util.FormatSeconds(b.status.Duration))
	if b.status.Speed != 1 {
		position += style.Faint(fmt.Sprintf("  %.2fx", b.status.Speed))
	}

	lines := []string{
		header,
		"",
		style.Bold(title),
		b.progressC.ViewAs(b.status.Progress()),
		position,
		b.notifier.View(),
		b.helpC.View(b.keymap),
	}

	return paddingStyle.Render(strings.Join(lines, "\n"))
}
