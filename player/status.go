package player

import (
	"strings"

	"github.com/glint-player/glint/constant"
)

// State is the coarse playback state.
type State int

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	default:
		return "Stopped"
	}
}

// MarshalText makes State readable in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Status mirrors the playback state derived from typed events.
type Status struct {
	State    State   `json:"state"`
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
	Position float64 `json:"position"`
	Speed    float64 `json:"speed"`
}

// Progress returns the played fraction in [0, 1].
func (s Status) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	p := s.Position / s.Duration
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// CleanTitle hides titles that are really locations.
func CleanTitle(title string) string {
	for _, prefix := range []string{"magnet:", "http://", "https://", "file://"} {
		if strings.HasPrefix(title, prefix) {
			return constant.App
		}
	}
	return title
}

func (s *Status) apply(ev Event) {
	switch ev.Kind {
	case Started:
		s.State = StatePlaying
		s.Position = 0
	case Stopped:
		s.State = StateStopped
		s.Position = 0
	case PropertyChanged:
		v, err := ev.Property.Value()
		if err != nil {
			return
		}

		switch ev.Property.Name {
		case "pause":
			paused, _ := v.Bool()
			if s.State == StateStopped {
				return
			}
			if paused {
				s.State = StatePaused
			} else {
				s.State = StatePlaying
			}
		case "media-title":
			title, _ := v.Str()
			s.Title = CleanTitle(title)
		case "duration":
			s.Duration, _ = v.Float()
		case "time-pos":
			s.Position, _ = v.Float()
		case "speed":
			s.Speed, _ = v.Float()
		}
	}
}
