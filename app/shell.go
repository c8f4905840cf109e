// Package app runs the host loop: it owns the graphics thread, applies window, UI and playback events,
// and redraws the composited surface when something changed.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/glint-player/glint/compositor"
	"github.com/glint-player/glint/ipc"
	"github.com/glint-player/glint/log"
	"github.com/glint-player/glint/metrics"
	"github.com/glint-player/glint/open"
	"github.com/glint-player/glint/player"
	"github.com/glint-player/glint/property"
	"github.com/glint-player/glint/util"
)

// startupProperties are observed as soon as the engine is attached.
var startupProperties = []string{"pause", "media-title", "duration", "time-pos", "speed"}

// WindowEventKind classifies native window events.
type WindowEventKind int

const (
	Resized WindowEventKind = iota + 1
	VisibilityChanged
	Minimized
	FullscreenChanged
	CloseRequested
)

// WindowEvent is a native window change. Width and Height are set for Resized, Flag otherwise.
type WindowEvent struct {
	Kind          WindowEventKind
	Width, Height int
	Flag          bool
}

// Window is the native window owning the graphics context.
type Window interface {
	player.Surface
	// Pump processes pending native events, waiting up to timeout for one. A negative timeout waits
	// until an event arrives or Wake is called.
	Pump(timeout time.Duration)
	Events() []WindowEvent
	// Wake interrupts Pump. It is safe from any goroutine.
	Wake()
	SwapBuffers()
	FramebufferSize() (width, height int)
	SetFullscreen(fullscreen bool)
	ShouldClose() bool
}

// Compositor is the part of compositor.Compositor the host loop drives.
type Compositor interface {
	Flush(source compositor.FrameSource) int
	Resize(width, height int)
	ClearVideo()
	Draw()
	FBO() uint32
	Size() (width, height int)
	Adapter() string
}

// Transport carries UI requests in and responses out.
type Transport interface {
	Messages() []ipc.Message
	Post(resp ipc.Response)
}

// Idler suspends the desktop screensaver while media plays.
type Idler interface {
	Inhibit()
	Allow()
}

type noTransport struct{}

func (noTransport) Messages() []ipc.Message { return nil }
func (noTransport) Post(ipc.Response)       {}

type noIdle struct{}

func (noIdle) Inhibit() {}
func (noIdle) Allow()   {}

// Options wires a Shell. Transport, Idle, Lspci and Open are optional.
type Options struct {
	Window     Window
	Compositor Compositor
	Proxy      *player.Proxy
	Frames     *util.Queue[compositor.Frame]
	Transport  Transport
	Idle       Idler
	Lspci      func() (string, error)
	Open       func(link string) error
}

// Shell is the host loop. Apart from Send, every method belongs to the graphics thread.
type Shell struct {
	window    Window
	comp      Compositor
	proxy     *player.Proxy
	frames    *util.Queue[compositor.Frame]
	transport Transport
	idle      Idler
	lspci     func() (string, error)
	open      func(string) error

	controls util.Queue[Control]

	needsRedraw bool
	quit        bool
	warned      bool
	fullscreen  bool
}

func New(opts Options) *Shell {
	s := &Shell{
		window:    opts.Window,
		comp:      opts.Compositor,
		proxy:     opts.Proxy,
		frames:    opts.Frames,
		transport: opts.Transport,
		idle:      opts.Idle,
		lspci:     opts.Lspci,
		open:      opts.Open,
	}

	if s.transport == nil {
		s.transport = noTransport{}
	}
	if s.idle == nil {
		s.idle = noIdle{}
	}
	if s.frames == nil {
		s.frames = &util.Queue[compositor.Frame]{}
	}
	if s.lspci == nil {
		s.lspci = Lspci
	}
	if s.open == nil {
		s.open = open.External
	}
	return s
}

// Send queues a playback command for the host thread.
func (s *Shell) Send(c Control) {
	s.controls.Push(c)
	s.window.Wake()
}

// Status forwards the playback mirror.
func (s *Shell) Status() player.Status {
	return s.proxy.Status()
}

// Start attaches the engine: a render context on the window and the startup observations.
func (s *Shell) Start() {
	s.setup()
	for _, name := range startupProperties {
		s.proxy.Observe(name)
	}
	s.needsRedraw = true
}

func (s *Shell) setup() {
	err := s.proxy.Setup(s.window)
	switch {
	case err == nil:
	case errors.Is(err, player.ErrRenderUnsupported):
		log.For("shell").Debug("engine renders in its own window")
	default:
		log.For("shell").Errorf("setup: %s", err)
	}
}

// Run loops until the window closes, the UI quits or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, s.window.Wake)
	defer stop()
	defer s.idle.Allow()

	s.Start()
	for {
		timeout := time.Duration(-1)
		if s.needsRedraw || s.frames.Len() > 0 {
			timeout = 0
		}
		s.window.Pump(timeout)

		if ctx.Err() != nil {
			return nil
		}
		if !s.Tick() {
			return nil
		}
	}
}

// Tick applies everything queued since the last call and redraws if needed.
// It returns false once the shell should exit.
func (s *Shell) Tick() bool {
	for _, ev := range s.window.Events() {
		s.windowEvent(ev)
	}

	for _, msg := range s.transport.Messages() {
		s.message(msg)
	}

	for _, c := range s.controls.PopBatch(0) {
		s.control(c)
	}

	more := s.proxy.Drain(s.event)

	if s.comp.Flush(s.frames) > 0 {
		s.needsRedraw = true
	}

	if s.needsRedraw {
		s.redraw()
	}

	if more || s.frames.Len() > 0 {
		s.window.Wake()
	}

	return !s.quit && !s.window.ShouldClose()
}

func (s *Shell) redraw() {
	width, height := s.comp.Size()

	s.comp.ClearVideo()
	s.proxy.Render(s.comp.FBO(), width, height)
	s.comp.Draw()
	s.window.SwapBuffers()
	s.proxy.ReportSwap()

	s.needsRedraw = false
}

func (s *Shell) windowEvent(ev WindowEvent) {
	switch ev.Kind {
	case Resized:
		s.comp.Resize(ev.Width, ev.Height)
		s.needsRedraw = true
	case VisibilityChanged:
		s.transport.Post(ipc.VisibilityChanged(ev.Flag, s.fullscreen))
		if ev.Flag {
			s.setup()
			s.needsRedraw = true
		} else {
			s.proxy.Release()
		}
	case Minimized:
		s.transport.Post(ipc.StateChanged(ev.Flag))
	case FullscreenChanged:
		s.fullscreen = ev.Flag
		s.transport.Post(ipc.VisibilityChanged(true, ev.Flag))
	case CloseRequested:
		s.quit = true
	}
}

func (s *Shell) message(msg ipc.Message) {
	switch msg.Kind {
	case ipc.Init:
		s.transport.Post(ipc.InitResponse(msg.ID))
	case ipc.AppReady:
		s.ready()
	case ipc.Quit:
		s.quit = true
	case ipc.Fullscreen:
		s.window.SetFullscreen(msg.Fullscreen)
	case ipc.OpenExternal:
		if err := s.open(msg.URL); err != nil {
			log.For("shell").Warnf("open external: %s", err)
		}
	case ipc.MpvCommand:
		args := make([]any, len(msg.Args))
		for i, a := range msg.Args {
			args[i] = a
		}
		s.proxy.Command(msg.Command, args...)
	case ipc.MpvObserve:
		name := msg.Property.Name
		s.proxy.Observe(name)
		if v, err := s.proxy.Get(name); err == nil {
			s.transport.Post(ipc.PropChange(property.New(name, v)))
		}
	case ipc.MpvSet:
		_ = s.proxy.Set(msg.Property)
	default:
		log.For("shell").Debugf("ignoring %s request", msg.Kind)
	}
}

// ready runs once the UI can receive messages.
func (s *Shell) ready() {
	if s.warned {
		return
	}
	s.warned = true

	adapter := s.comp.Adapter()
	log.For("shell").Infof("detected renderer: %s", adapter)
	if warning := GPUWarning(adapter, s.lspci); warning != "" {
		s.transport.Post(ipc.GPUWarning(warning))
	}
}

func (s *Shell) event(ev player.Event) {
	switch ev.Kind {
	case player.Started:
		_ = s.proxy.Set(property.New("pause", property.Bool(false)))
		s.idle.Inhibit()
	case player.Stopped:
		_ = s.proxy.Set(property.New("pause", property.Bool(true)))
		s.idle.Allow()
		s.transport.Post(ipc.Ended(ev.Reason))
	case player.RenderUpdate:
		s.needsRedraw = true
	case player.PropertyChanged:
		s.transport.Post(ipc.PropChange(ev.Property))
	case player.EngineError:
		s.transport.Post(ipc.EngineError(ev.Message))
	}
}

// QueueDepth reports the frames waiting for the next paint.
func (s *Shell) QueueDepth() int {
	n := s.frames.Len()
	metrics.QueueDepth.Set(float64(n))
	return n
}
