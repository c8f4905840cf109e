// Package ipc is the UI transport: JSON request/response envelopes over a websocket, plus binary
// overlay frames that feed the compositor.
package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/glint-player/glint/constant"
	"github.com/glint-player/glint/property"
	"github.com/samber/mo"
)

// Envelope types.
const (
	TypeSignal = 1
	TypeInit   = 3
	TypeInvoke = 6
)

// TransportName is the object every response is addressed from.
const TransportName = "transport"

var (
	ErrUnknownType   = errors.New("unknown message type")
	ErrUnknownMethod = errors.New("unknown method")
	ErrInvalidArgs   = errors.New("invalid arguments")
)

// Request is a message sent by the UI.
type Request struct {
	ID   uint64          `json:"id" jsonschema:"description=Correlation id echoed by the init reply"`
	Type int             `json:"type" jsonschema:"enum=3,enum=6,description=3 initializes the transport; 6 invokes a method"`
	Args json.RawMessage `json:"args,omitempty" jsonschema:"type=array,description=[method name, optional argument]"`
}

// Response is a message sent to the UI.
type Response struct {
	ID     uint64 `json:"id"`
	Type   int    `json:"type" jsonschema:"enum=1,enum=3"`
	Object string `json:"object" jsonschema:"const=transport"`
	Data   any    `json:"data,omitempty"`
	Args   []any  `json:"args,omitempty"`
}

// Kind identifies a parsed UI request.
type Kind int

const (
	Init Kind = iota + 1
	Quit
	AppReady
	ReadClipboard
	Fullscreen
	OpenExternal
	MpvCommand
	MpvObserve
	MpvSet
)

func (k Kind) String() string {
	switch k {
	case Init:
		return "init"
	case Quit:
		return "quit"
	case AppReady:
		return "app-ready"
	case ReadClipboard:
		return "read-clipboard"
	case Fullscreen:
		return "win-set-visibility"
	case OpenExternal:
		return "open-external"
	case MpvCommand:
		return "mpv-command"
	case MpvObserve:
		return "mpv-observe-prop"
	case MpvSet:
		return "mpv-set-prop"
	default:
		return "unknown"
	}
}

// Message is a parsed UI request. Only the fields matching Kind are set.
type Message struct {
	Kind       Kind
	ID         uint64
	Fullscreen bool
	URL        string
	Command    string
	Args       []string
	// Property carries the name for MpvObserve and name plus value for MpvSet.
	Property property.Property
}

// ParseRequest decodes one UI request.
func ParseRequest(data []byte) (Message, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return Message{}, fmt.Errorf("decode request: %w", err)
	}

	switch req.Type {
	case TypeInit:
		return Message{Kind: Init, ID: req.ID}, nil
	case TypeInvoke:
		return parseInvoke(req.Args)
	default:
		return Message{}, fmt.Errorf("%w: %d", ErrUnknownType, req.Type)
	}
}

func parseInvoke(raw json.RawMessage) (Message, error) {
	if len(raw) == 0 {
		return Message{}, fmt.Errorf("%w: missing args", ErrInvalidArgs)
	}

	var args []json.RawMessage
	if err := json.Unmarshal(raw, &args); err != nil || len(args) == 0 {
		return Message{}, fmt.Errorf("%w: args must be a non-empty array", ErrInvalidArgs)
	}

	var name string
	if err := json.Unmarshal(args[0], &name); err != nil {
		return Message{}, fmt.Errorf("%w: method name must be a string", ErrInvalidArgs)
	}
	name = strings.TrimSpace(name)

	if len(args) == 1 {
		switch name {
		case "quit":
			return Message{Kind: Quit}, nil
		case "app-ready":
			return Message{Kind: AppReady}, nil
		case "read-clipboard":
			return Message{Kind: ReadClipboard}, nil
		default:
			return Message{}, fmt.Errorf("%w: %s", ErrUnknownMethod, name)
		}
	}

	data := args[1]
	invalid := func(err error) (Message, error) {
		return Message{}, fmt.Errorf("%w: %s: %v", ErrInvalidArgs, name, err)
	}

	switch name {
	case "win-set-visibility":
		var v struct {
			Fullscreen bool `json:"fullscreen"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return invalid(err)
		}
		return Message{Kind: Fullscreen, Fullscreen: v.Fullscreen}, nil
	case "open-external":
		var url string
		if err := json.Unmarshal(data, &url); err != nil {
			return invalid(err)
		}
		return Message{Kind: OpenExternal, URL: url}, nil
	case "mpv-command":
		var command []string
		if err := json.Unmarshal(data, &command); err != nil {
			return invalid(err)
		}
		if len(command) == 0 {
			return invalid(errors.New("empty command"))
		}
		return Message{Kind: MpvCommand, Command: command[0], Args: command[1:]}, nil
	case "mpv-observe-prop":
		var prop string
		if err := json.Unmarshal(data, &prop); err != nil {
			return invalid(err)
		}
		return Message{Kind: MpvObserve, Property: property.Property{Name: prop}}, nil
	case "mpv-set-prop":
		var pair []any
		if err := json.Unmarshal(data, &pair); err != nil {
			return invalid(err)
		}
		if len(pair) == 0 {
			return invalid(errors.New("missing property name"))
		}
		prop, ok := pair[0].(string)
		if !ok {
			return invalid(errors.New("property name must be a string"))
		}
		p := property.Property{Name: prop}
		if len(pair) > 1 {
			p.Data = pair[1]
		}
		return Message{Kind: MpvSet, Property: p}, nil
	case "app-ready":
		return Message{Kind: AppReady}, nil
	default:
		return Message{}, fmt.Errorf("%w: %s", ErrUnknownMethod, name)
	}
}

func signal(args ...any) Response {
	return Response{ID: 1, Type: TypeSignal, Object: TransportName, Args: args}
}

// InitResponse answers the UI's init request with the transport description.
func InitResponse(id uint64) Response {
	return Response{
		ID:     id,
		Type:   TypeInit,
		Object: TransportName,
		Data: map[string]any{
			"transport": map[string]any{
				"properties": []any{[]any{}, []any{"", "shellVersion", "", constant.Version}},
				"signals":    []any{},
				"methods":    []any{[]any{"onEvent"}},
			},
		},
	}
}

// VisibilityChanged reports the window's visibility and fullscreen state.
func VisibilityChanged(visible, fullscreen bool) Response {
	visibility := 0
	if visible {
		visibility = 1
	}
	return signal("win-visibility-changed", map[string]any{
		"visible":      visible,
		"visibility":   visibility,
		"isFullscreen": fullscreen,
	})
}

// StateChanged reports whether the window is minimized.
func StateChanged(minimized bool) Response {
	state := 8
	if minimized {
		state = 9
	}
	return signal("win-state-changed", map[string]any{"state": state})
}

func OpenMedia(link string) Response {
	return signal("open-media", link)
}

func PropChange(p property.Property) Response {
	return signal("mpv-prop-change", p)
}

// Ended reports a stopped file, with "quit" or "error" when the stop was not a plain end.
func Ended(reason mo.Option[string]) Response {
	var value any
	if r, ok := reason.Get(); ok {
		value = r
	}
	return signal("mpv-event-ended", map[string]any{"error": value})
}

func EngineError(message string) Response {
	return signal("mpv-event-error", map[string]any{"error": message})
}

func GPUWarning(message string) Response {
	return signal("gpu-warning", message)
}

func NextVideo() Response {
	return signal("next-video")
}

func PreviousVideo() Response {
	return signal("previous-video")
}
