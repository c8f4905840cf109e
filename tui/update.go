package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/glint-player/glint/app"
	"github.com/glint-player/glint/player"
	"github.com/glint-player/glint/util"
)

func (b *bubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := b.notifier.Update(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width)
	case statusMsg:
		b.status = player.Status(msg)
		return b, tea.Batch(cmd, b.poll())
	case tea.KeyMsg:
		return b, tea.Batch(cmd, b.handleKey(msg))
	}

	return b, cmd
}

func (b *bubble) send(c app.Control, text string) tea.Cmd {
	b.controller.Send(c)
	return notify(text)
}

func (b *bubble) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, b.keymap.quit):
		return tea.Quit
	case key.Matches(msg, b.keymap.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
		return nil
	case key.Matches(msg, b.keymap.playPause):
		return b.send(app.Control{Kind: app.PlayPause}, "play/pause")
	case key.Matches(msg, b.keymap.stop):
		return b.send(app.Control{Kind: app.Stop}, "stop")
	case key.Matches(msg, b.keymap.next):
		return b.send(app.Control{Kind: app.Next}, "next")
	case key.Matches(msg, b.keymap.previous):
		return b.send(app.Control{Kind: app.Previous}, "previous")
	case key.Matches(msg, b.keymap.seekBack):
		return b.send(app.Control{Kind: app.Seek, Micros: -seekStep.Microseconds()}, "seek -10s")
	case key.Matches(msg, b.keymap.seekForward):
		return b.send(app.Control{Kind: app.Seek, Micros: seekStep.Microseconds()}, "seek +10s")
	case key.Matches(msg, b.keymap.slower):
		return b.setSpeed(b.status.Speed - speedStep)
	case key.Matches(msg, b.keymap.faster):
		return b.setSpeed(b.status.Speed + speedStep)
	case key.Matches(msg, b.keymap.resetSpeed):
		return b.setSpeed(1)
	}
	return nil
}

func (b *bubble) setSpeed(speed float64) tea.Cmd {
	speed = util.Clamp(speed, minSpeed, maxSpeed)
	// shown before the engine confirms it
	b.status.Speed = speed
	return b.send(app.Control{Kind: app.SetRate, Rate: speed}, fmt.Sprintf("speed %.2fx", speed))
}
