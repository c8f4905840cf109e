package app

import (
	"github.com/glint-player/glint/ipc"
	"github.com/glint-player/glint/property"
)

// ControlKind is a media-key style playback command.
type ControlKind int

const (
	Play ControlKind = iota + 1
	Pause
	PlayPause
	Stop
	Next
	Previous
	Seek
	SetPosition
	SetRate
)

func (k ControlKind) String() string {
	switch k {
	case Play:
		return "play"
	case Pause:
		return "pause"
	case PlayPause:
		return "play-pause"
	case Stop:
		return "stop"
	case Next:
		return "next"
	case Previous:
		return "previous"
	case Seek:
		return "seek"
	case SetPosition:
		return "set-position"
	case SetRate:
		return "set-rate"
	default:
		return "unknown"
	}
}

// Control is a playback command from outside the host thread.
type Control struct {
	Kind ControlKind
	// Micros is the seek offset for Seek and the absolute position for SetPosition, in microseconds.
	Micros int64
	Rate   float64
}

func (s *Shell) control(c Control) {
	switch c.Kind {
	case Play:
		_ = s.proxy.Set(property.New("pause", property.Bool(false)))
	case Pause:
		_ = s.proxy.Set(property.New("pause", property.Bool(true)))
	case PlayPause:
		s.proxy.Command("cycle", "pause")
	case Stop:
		s.proxy.Command("stop")
	case Next:
		s.transport.Post(ipc.NextVideo())
	case Previous:
		s.transport.Post(ipc.PreviousVideo())
	case Seek:
		s.proxy.Command("seek", float64(c.Micros)/1e6, "relative")
	case SetPosition:
		s.proxy.Command("seek", float64(c.Micros)/1e6, "absolute")
	case SetRate:
		_ = s.proxy.Set(property.New("speed", property.Float(c.Rate)))
	}
}
