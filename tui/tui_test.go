package tui

import (
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/glint-player/glint/app"
	"github.com/glint-player/glint/player"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeController struct {
	mu       sync.Mutex
	status   player.Status
	controls []app.Control
}

func (f *fakeController) Status() player.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeController) Send(c app.Control) {
	f.mu.Lock()
	f.controls = append(f.controls, c)
	f.mu.Unlock()
}

func press(b *bubble, keys string) tea.Cmd {
	var msg tea.KeyMsg
	switch keys {
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "backspace":
		msg = tea.KeyMsg{Type: tea.KeyBackspace}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	}
	_, cmd := b.Update(msg)
	return cmd
}

func TestKeys(t *testing.T) {
	Convey("Given a panel over a playing file", t, func() {
		controller := &fakeController{status: player.Status{State: player.StatePlaying, Title: "Sintel", Duration: 600, Position: 30, Speed: 1}}
		b := newBubble(controller)

		Convey("Space toggles playback", func() {
			press(b, " ")
			So(controller.controls, ShouldResemble, []app.Control{{Kind: app.PlayPause}})
		})

		Convey("Arrows seek by ten seconds", func() {
			press(b, "left")
			press(b, "right")
			So(controller.controls, ShouldResemble, []app.Control{
				{Kind: app.Seek, Micros: -10_000_000},
				{Kind: app.Seek, Micros: 10_000_000},
			})
		})

		Convey("Speed changes are clamped", func() {
			for i := 0; i < 20; i++ {
				press(b, "]")
			}
			So(b.status.Speed, ShouldEqual, maxSpeed)
			last := controller.controls[len(controller.controls)-1]
			So(last, ShouldResemble, app.Control{Kind: app.SetRate, Rate: maxSpeed})

			press(b, "backspace")
			So(b.status.Speed, ShouldEqual, 1)
		})

		Convey("Track navigation", func() {
			press(b, "n")
			press(b, "N")
			press(b, "s")
			So(controller.controls, ShouldResemble, []app.Control{{Kind: app.Next}, {Kind: app.Previous}, {Kind: app.Stop}})
		})

		Convey("Help toggles without sending anything", func() {
			press(b, "?")
			So(b.helpC.ShowAll, ShouldBeTrue)
			So(controller.controls, ShouldBeEmpty)
		})

		Convey("q quits", func() {
			cmd := press(b, "q")
			So(cmd, ShouldNotBeNil)
			So(cmd(), ShouldHaveSameTypeAs, tea.QuitMsg{})
		})
	})
}

func TestView(t *testing.T) {
	Convey("The panel renders the playback mirror", t, func() {
		controller := &fakeController{status: player.Status{State: player.StatePaused, Title: "Big Buck Bunny", Duration: 3725, Position: 62, Speed: 1.5}}
		b := newBubble(controller)
		b.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

		view := b.View()
		So(view, ShouldContainSubstring, "Big Buck Bunny")
		So(view, ShouldContainSubstring, "1:02 / 1:02:05")
		So(view, ShouldContainSubstring, "1.50x")
		So(view, ShouldContainSubstring, "Paused")

		Convey("A new status replaces the old one", func() {
			b.Update(statusMsg(player.Status{State: player.StateStopped}))
			So(b.View(), ShouldContainSubstring, "Nothing playing")
		})

		Convey("Notifications show the last command", func() {
			b.Update(notification("seek +10s"))
			So(b.View(), ShouldContainSubstring, "seek +10s")

			b.Update(clearNotificationMsg{id: b.notifier.id})
			So(b.View(), ShouldNotContainSubstring, "seek +10s")
		})

		Convey("A stale clear keeps the newer notification", func() {
			b.Update(notification("stop"))
			stale := b.notifier.id
			b.Update(notification("play/pause"))
			b.Update(clearNotificationMsg{id: stale})
			So(b.View(), ShouldContainSubstring, "play/pause")
		})
	})
}
