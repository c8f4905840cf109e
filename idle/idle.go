// Package idle keeps the desktop from blanking the screen while media plays.
package idle

import (
	"fmt"
	"sync"

	"github.com/glint-player/glint/constant"
	"github.com/glint-player/glint/log"
	"github.com/godbus/dbus/v5"
)

const (
	service = "org.freedesktop.ScreenSaver"
	path    = "/org/freedesktop/ScreenSaver"
)

const reason = "Playing media"

type caller interface {
	Call(method string, flags dbus.Flags, args ...any) *dbus.Call
}

// Inhibitor holds at most one screensaver inhibition at a time.
type Inhibitor struct {
	obj caller

	mu     sync.Mutex
	cookie uint32
	held   bool
}

// Connect reaches the screensaver service on the session bus.
func Connect() (*Inhibitor, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("session bus: %w", err)
	}
	return &Inhibitor{obj: conn.Object(service, path)}, nil
}

// Inhibit suspends idling. Calling it while already inhibited does nothing.
func (i *Inhibitor) Inhibit() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.held {
		return
	}

	var cookie uint32
	if err := i.obj.Call(service+".Inhibit", 0, constant.App, reason).Store(&cookie); err != nil {
		log.For("idle").Warnf("inhibit: %s", err)
		return
	}
	i.cookie, i.held = cookie, true
}

// Allow lifts the inhibition taken by Inhibit.
func (i *Inhibitor) Allow() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.held {
		return
	}

	if call := i.obj.Call(service+".UnInhibit", 0, i.cookie); call.Err != nil {
		log.For("idle").Warnf("uninhibit: %s", call.Err)
	}
	i.held = false
}

// Held reports whether idling is currently suspended.
func (i *Inhibitor) Held() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.held
}
