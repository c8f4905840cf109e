package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keymap struct {
	quit, playPause, stop,
	seekBack, seekForward,
	slower, faster, resetSpeed,
	next, previous,
	showHelp key.Binding
}

func newKeymap() *keymap {
	return &keymap{
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		playPause: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space", "play/pause"),
		),
		stop: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop"),
		),
		seekBack: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "-10s"),
		),
		seekForward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "+10s"),
		),
		slower: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "slower"),
		),
		faster: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "faster"),
		),
		resetSpeed: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("backspace", "normal speed"),
		),
		next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next"),
		),
		previous: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "previous"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k *keymap) ShortHelp() []key.Binding {
	return []key.Binding{k.playPause, k.seekBack, k.seekForward, k.showHelp, k.quit}
}

// FullHelp implements help.KeyMap.
func (k *keymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.playPause, k.stop, k.next, k.previous},
		{k.seekBack, k.seekForward},
		{k.slower, k.faster, k.resetSpeed},
		{k.showHelp, k.quit},
	}
}
