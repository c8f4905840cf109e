// Package tui is the terminal playback panel shown next to the window.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/glint-player/glint/app"
	"github.com/glint-player/glint/player"
)

// Controller is the side of the host loop the panel talks to. Both methods are safe from any goroutine.
type Controller interface {
	Status() player.Status
	Send(c app.Control)
}

// Options tune the panel.
type Options struct {
	// AltScreen takes over the whole terminal.
	AltScreen bool
}

// Run shows the panel until the user quits or ctx is done.
func Run(ctx context.Context, controller Controller, options *Options) error {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if options != nil && options.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}

	_, err := tea.NewProgram(newBubble(controller), opts...).Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
