// Package window owns the native GLFW window and its OpenGL context.
// Every function except Wake must run on the thread that called Open.
package window

import (
	"fmt"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"github.com/glint-player/glint/app"
	"github.com/glint-player/glint/constant"
	"github.com/glint-player/glint/key"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spf13/viper"
)

// Options describe the initial window.
type Options struct {
	Width, Height int
	Title         string
}

// Window is an app.Window backed by GLFW.
type Window struct {
	win *glfw.Window

	mu     sync.Mutex
	events []app.WindowEvent

	// saved windowed geometry while fullscreen
	x, y, width, height int
}

// Open creates the window and makes its context current. The caller's goroutine is locked to
// its OS thread until Close.
func Open(opts Options) (*Window, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("init glfw: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.DoubleBuffer, glfw.True)

	if opts.Title == "" {
		opts.Title = viper.GetString(key.WindowTitle)
	}
	if opts.Title == "" {
		opts.Title = constant.App
	}

	win, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("create window: %w", err)
	}

	win.MakeContextCurrent()
	if viper.GetBool(key.WindowVsync) {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	w := &Window{win: win}
	w.watch()
	return w, nil
}

func (w *Window) push(ev app.WindowEvent) {
	w.mu.Lock()
	w.events = append(w.events, ev)
	w.mu.Unlock()
}

func (w *Window) watch() {
	w.win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.push(app.WindowEvent{Kind: app.Resized, Width: width, Height: height})
	})
	w.win.SetIconifyCallback(func(_ *glfw.Window, iconified bool) {
		w.push(app.WindowEvent{Kind: app.Minimized, Flag: iconified})
		w.push(app.WindowEvent{Kind: app.VisibilityChanged, Flag: !iconified})
	})
	w.win.SetCloseCallback(func(_ *glfw.Window) {
		w.push(app.WindowEvent{Kind: app.CloseRequested})
	})
}

// ProcAddress resolves a GL entry point for the engine's renderer.
func (w *Window) ProcAddress(name string) unsafe.Pointer {
	return glfw.GetProcAddress(name)
}

// Pump processes native events. A negative timeout blocks until an event or Wake.
func (w *Window) Pump(timeout time.Duration) {
	switch {
	case timeout < 0:
		glfw.WaitEvents()
	case timeout == 0:
		glfw.PollEvents()
	default:
		glfw.WaitEventsTimeout(timeout.Seconds())
	}
}

func (w *Window) Events() []app.WindowEvent {
	w.mu.Lock()
	defer w.mu.Unlock()
	events := w.events
	w.events = nil
	return events
}

// Wake unblocks Pump from any goroutine.
func (w *Window) Wake() {
	glfw.PostEmptyEvent()
}

func (w *Window) SwapBuffers() {
	w.win.SwapBuffers()
}

func (w *Window) FramebufferSize() (int, int) {
	return w.win.GetFramebufferSize()
}

// RefreshRate is the refresh rate of the primary monitor, 60 when unknown.
func (w *Window) RefreshRate() int {
	monitor := glfw.GetPrimaryMonitor()
	if monitor == nil {
		return 60
	}
	mode := monitor.GetVideoMode()
	if mode == nil || mode.RefreshRate <= 0 {
		return 60
	}
	return mode.RefreshRate
}

func (w *Window) SetFullscreen(fullscreen bool) {
	current := w.win.GetMonitor() != nil
	if current == fullscreen {
		return
	}

	if fullscreen {
		monitor := glfw.GetPrimaryMonitor()
		if monitor == nil {
			return
		}
		w.x, w.y = w.win.GetPos()
		w.width, w.height = w.win.GetSize()
		mode := monitor.GetVideoMode()
		w.win.SetMonitor(monitor, 0, 0, mode.Width, mode.Height, mode.RefreshRate)
	} else {
		w.win.SetMonitor(nil, w.x, w.y, w.width, w.height, glfw.DontCare)
	}

	w.push(app.WindowEvent{Kind: app.FullscreenChanged, Flag: fullscreen})
}

func (w *Window) ShouldClose() bool {
	return w.win.ShouldClose()
}

// Close destroys the window and releases the OS thread.
func (w *Window) Close() {
	w.win.Destroy()
	glfw.Terminate()
	runtime.UnlockOSThread()
}

var _ app.Window = (*Window)(nil)
