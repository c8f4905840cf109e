package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/glint-player/glint/player"
	"github.com/glint-player/glint/util"
)

const (
	refreshInterval = 250 * time.Millisecond
	seekStep        = 10 * time.Second
	speedStep       = 0.25
	minSpeed        = 0.25
	maxSpeed        = 4.0
)

type statusMsg player.Status

type bubble struct {
	controller Controller
	status     player.Status

	keymap    *keymap
	helpC     help.Model
	progressC progress.Model
	notifier  notifier

	width int
}

func newBubble(controller Controller) *bubble {
	b := &bubble{
		controller: controller,
		status:     controller.Status(),
		keymap:     newKeymap(),
		helpC:      help.New(),
		progressC:  progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}

	if w, _, err := util.TerminalSize(); err == nil {
		b.resize(w)
	}
	return b
}

func (b *bubble) resize(width int) {
	x, _ := paddingStyle.GetFrameSize()
	b.width = width - x
	b.helpC.Width = b.width
	b.progressC.Width = b.width
}

// poll refreshes the mirror on a fixed interval.
func (b *bubble) poll() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return statusMsg(b.controller.Status())
	})
}

func (b *bubble) Init() tea.Cmd {
	return b.poll()
}
