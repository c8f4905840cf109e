package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/glint-player/glint/style"
)

const notificationLifetime = 2 * time.Second

type notification string

type clearNotificationMsg struct {
	id int
}

// notifier shows the last command sent, then clears it.
type notifier struct {
	text string
	id   int
}

func notify(text string) tea.Cmd {
	return func() tea.Msg { return notification(text) }
}

func (n *notifier) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case notification:
		n.text = string(msg)
		n.id++
		id := n.id
		return tea.Tick(notificationLifetime, func(time.Time) tea.Msg {
			return clearNotificationMsg{id: id}
		})
	case clearNotificationMsg:
		// a newer notification owns the line
		if msg.id == n.id {
			n.text = ""
		}
	}
	return nil
}

func (n *notifier) View() string {
	if n.text == "" {
		return ""
	}
	return style.Faint(n.text)
}
