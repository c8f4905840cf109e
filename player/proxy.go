package player

import (
	"fmt"
	"sync"

	"github.com/glint-player/glint/key"
	"github.com/glint-player/glint/log"
	"github.com/glint-player/glint/metrics"
	"github.com/glint-player/glint/property"
	"github.com/spf13/viper"
)

const defaultDrainLimit = 256

// Proxy wraps an Engine for the host loop.
//
// Observe, Set, Get, Command and Status are safe from any goroutine. Drain, Setup, Release,
// Render, ReportSwap and Close belong to the host thread.
type Proxy struct {
	engine     Engine
	wake       func()
	drainLimit int

	mu       sync.RWMutex
	observed map[string]struct{}
	status   Status

	render  RenderContext
	updates chan struct{}
	pending []Event
}

// NewProxy wraps engine. wake is called from engine threads when a new frame is ready and may be nil.
func NewProxy(engine Engine, wake func()) *Proxy {
	limit := viper.GetInt(key.PlayerDrainLimit)
	if limit <= 0 {
		limit = defaultDrainLimit
	}
	if wake == nil {
		wake = func() {}
	}

	return &Proxy{
		engine:     engine,
		wake:       wake,
		drainLimit: limit,
		observed:   make(map[string]struct{}),
		status:     Status{Speed: 1},
		updates:    make(chan struct{}, 1),
	}
}

// Observe subscribes to name. Unregistered names are ignored and repeated calls are no-ops.
func (p *Proxy) Observe(name string) {
	kind, ok := property.Lookup(name)
	if !ok {
		return
	}

	p.mu.RLock()
	_, seen := p.observed[name]
	p.mu.RUnlock()
	if seen {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, seen := p.observed[name]; seen {
		return
	}

	if err := p.engine.ObserveProperty(name, kind); err != nil {
		p.fail("observe", fmt.Errorf("observe %s: %w", name, err))
		return
	}
	p.observed[name] = struct{}{}
}

// Observed reports whether name is subscribed.
func (p *Proxy) Observed(name string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.observed[name]
	return ok
}

// Set writes a property after checking its value against the registry.
// A value of the wrong kind never reaches the engine.
func (p *Proxy) Set(prop property.Property) error {
	v, err := prop.Value()
	if err != nil {
		log.Warnf("set %s: %s", prop.Name, err)
		return err
	}

	if err := p.engine.SetProperty(prop.Name, v.Any()); err != nil {
		err = fmt.Errorf("set %s: %w", prop.Name, err)
		p.fail("set", err)
		return err
	}
	return nil
}

// Get reads the current value of name.
func (p *Proxy) Get(name string) (property.Value, error) {
	kind, ok := property.Lookup(name)
	if !ok {
		return property.Value{}, fmt.Errorf("%w: %s", property.ErrUnknownProperty, name)
	}

	data, err := p.engine.GetProperty(name, kind)
	if err != nil {
		return property.Value{}, fmt.Errorf("get %s: %w", name, err)
	}

	v, err := property.Typed(kind, data)
	if err != nil {
		return property.Value{}, fmt.Errorf("get %s: %w", name, err)
	}
	return v, nil
}

// Command forwards an engine command.
func (p *Proxy) Command(name string, args ...any) {
	if err := p.engine.Command(name, args...); err != nil {
		p.fail("command", fmt.Errorf("command %s: %w", name, err))
	}
}

// Status returns a snapshot of the playback mirror.
func (p *Proxy) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

// Drain converts everything the engine has queued and passes each event to handler in arrival
// order. It never blocks. more is true when the per-call limit stopped polling early.
func (p *Proxy) Drain(handler func(Event)) (more bool) {
	p.dispatch(handler)

	select {
	case <-p.updates:
		p.pending = append(p.pending, Event{Kind: RenderUpdate})
	default:
	}

	for polled := 0; ; polled++ {
		if polled == p.drainLimit {
			more = true
			break
		}

		native, err := p.engine.PollEvent(0)
		if err != nil {
			p.fail("poll", err)
			p.pending = append(p.pending, Event{Kind: EngineError, Message: err.Error()})
			break
		}
		if native == nil {
			break
		}

		if ev, ok := convert(native); ok {
			p.pending = append(p.pending, ev)
		}
	}

	p.dispatch(handler)
	return more
}

func (p *Proxy) dispatch(handler func(Event)) {
	for len(p.pending) > 0 {
		ev := p.pending[0]
		p.pending[0] = Event{}
		p.pending = p.pending[1:]

		p.mu.Lock()
		p.status.apply(ev)
		p.mu.Unlock()

		metrics.EventsTotal.WithLabelValues(ev.Kind.String()).Inc()
		handler(ev)
	}
}

// Setup creates a render context on surface, replacing any existing one.
func (p *Proxy) Setup(surface Surface) error {
	p.Release()

	ctx, err := p.engine.NewRenderContext(surface, p.notify)
	if err != nil {
		return fmt.Errorf("render context: %w", err)
	}
	p.render = ctx
	return nil
}

// notify runs on an engine thread. It carries no payload and never blocks.
func (p *Proxy) notify() {
	select {
	case p.updates <- struct{}{}:
	default:
	}
	p.wake()
}

// Release frees the render context and keeps the engine running.
func (p *Proxy) Release() {
	if p.render == nil {
		return
	}
	p.render.Free()
	p.render = nil
}

// Render draws the current engine frame into fbo. Failures are reported as EngineError on the next Drain.
func (p *Proxy) Render(fbo uint32, width, height int) {
	if p.render == nil || width <= 0 || height <= 0 {
		return
	}

	if err := p.render.Render(fbo, width, height); err != nil {
		err = fmt.Errorf("render: %w", err)
		p.fail("render", err)
		p.pending = append(p.pending, Event{Kind: EngineError, Message: err.Error()})
	}
}

// ReportSwap tells the engine a frame reached the screen.
func (p *Proxy) ReportSwap() {
	if p.render != nil {
		p.render.ReportSwap()
	}
}

// Close releases the render context and shuts the engine down.
func (p *Proxy) Close() error {
	p.Release()
	if p.engine == nil {
		return nil
	}
	return p.engine.Close()
}

func (p *Proxy) fail(op string, err error) {
	metrics.EngineErrors.WithLabelValues(op).Inc()
	log.For("player").Error(err)
}
