package player

import (
	"github.com/glint-player/glint/log"
	"github.com/glint-player/glint/property"
	"github.com/samber/mo"
)

// EventKind is the closed set of typed engine events.
type EventKind int

const (
	Started EventKind = iota + 1
	Stopped
	RenderUpdate
	PropertyChanged
	EngineError
)

func (k EventKind) String() string {
	switch k {
	case Started:
		return "started"
	case Stopped:
		return "stopped"
	case RenderUpdate:
		return "render-update"
	case PropertyChanged:
		return "property-changed"
	case EngineError:
		return "engine-error"
	default:
		return "unknown"
	}
}

// End-file codes as reported by the engine.
const (
	EndEOF      = 0
	EndStop     = 2
	EndQuit     = 3
	EndError    = 4
	EndRedirect = 5
	EndUnknown  = 6
)

// Event is a typed engine event. Only the fields matching Kind are set.
type Event struct {
	Kind EventKind
	// Reason classifies a Stopped event: "quit", "error" or none.
	Reason   mo.Option[string]
	Property property.Property
	Message  string
}

// StopReason maps an end-file code to its classification.
func StopReason(code int) mo.Option[string] {
	switch {
	case code == EndQuit:
		return mo.Some("quit")
	case code == EndError:
		return mo.Some("error")
	default:
		return mo.None[string]()
	}
}

// convert types a native event. ok is false for events that are dropped.
func convert(ev *NativeEvent) (Event, bool) {
	switch ev.Kind {
	case NativeStartFile:
		return Event{Kind: Started}, true
	case NativeEndFile:
		return Event{Kind: Stopped, Reason: StopReason(ev.Reason)}, true
	case NativePropertyChange:
		v, err := property.Property{Name: ev.Name, Data: ev.Data}.Value()
		if err != nil {
			log.Debugf("dropping property change: %s", err)
			return Event{}, false
		}
		return Event{Kind: PropertyChanged, Property: property.New(ev.Name, v)}, true
	default:
		return Event{}, false
	}
}
