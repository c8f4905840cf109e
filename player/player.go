// Package player turns a playback engine's native event stream and untyped property system into
// typed events and typed properties for the host loop.
//
// The default engine is libmpv embedded in-process; an external mpv driven over its JSON-IPC socket
// is the fallback. Anything implementing Engine can be wrapped by a Proxy.
package player

import (
	"errors"
	"time"
	"unsafe"

	"github.com/glint-player/glint/property"
)

var (
	// ErrRenderUnsupported is returned by engines that cannot render into a host framebuffer.
	ErrRenderUnsupported = errors.New("engine has no render API")
	// ErrEngineClosed is returned by calls made after Close.
	ErrEngineClosed = errors.New("engine closed")
)

// NativeKind classifies a raw engine event.
type NativeKind int

const (
	NativeStartFile NativeKind = iota + 1
	NativeEndFile
	NativePropertyChange
	NativeOther
)

// NativeEvent is an event as the engine reports it, before typing.
type NativeEvent struct {
	Kind NativeKind
	// Name is the property name for NativePropertyChange, the raw event name otherwise.
	Name string
	Data any
	// Reason is the end-file code for NativeEndFile.
	Reason int
}

// Surface resolves graphics entry points for an engine render context.
type Surface interface {
	ProcAddress(name string) unsafe.Pointer
}

// RenderContext renders engine frames into a host framebuffer.
type RenderContext interface {
	Render(fbo uint32, width, height int) error
	ReportSwap()
	Free()
}

// Engine is the command surface of a playback engine. Every call may fail.
type Engine interface {
	Command(name string, args ...any) error
	SetProperty(name string, value any) error
	GetProperty(name string, kind property.Kind) (any, error)
	ObserveProperty(name string, kind property.Kind) error
	// PollEvent waits up to timeout for the next event. A nil event means none is pending.
	PollEvent(timeout time.Duration) (*NativeEvent, error)
	// NewRenderContext binds a render context to surface. update is called from an engine
	// thread whenever a new frame is ready and must not block.
	NewRenderContext(surface Surface, update func()) (RenderContext, error)
	Close() error
}
