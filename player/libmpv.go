//go:build cgo && !nolibmpv

package player

/*
#cgo pkg-config: mpv
#include <locale.h>
#include <stdint.h>
#include <stdlib.h>
#include <mpv/client.h>
#include <mpv/render.h>
#include <mpv/render_gl.h>

extern void glintWakeup(void *ctx);
extern void glintRenderUpdate(void *ctx);
extern void *glintProcAddress(void *ctx, char *name);

static void glint_set_wakeup(mpv_handle *h, void *ctx) {
	mpv_set_wakeup_callback(h, glintWakeup, ctx);
}

static int glint_render_create(mpv_render_context **res, mpv_handle *h, void *ctx) {
	mpv_opengl_init_params gl = {
		.get_proc_address = (void *(*)(void *, const char *))glintProcAddress,
		.get_proc_address_ctx = ctx,
	};
	mpv_render_param params[] = {
		{MPV_RENDER_PARAM_API_TYPE, (void *)MPV_RENDER_API_TYPE_OPENGL},
		{MPV_RENDER_PARAM_OPENGL_INIT_PARAMS, &gl},
		{MPV_RENDER_PARAM_INVALID, NULL},
	};
	int err = mpv_render_context_create(res, h, params);
	if (err >= 0) {
		mpv_render_context_set_update_callback(*res, glintRenderUpdate, ctx);
	}
	return err;
}

static int glint_render(mpv_render_context *r, int fbo, int w, int h) {
	mpv_opengl_fbo target = {.fbo = fbo, .w = w, .h = h};
	int flip = 0;
	int block = 0;
	mpv_render_param params[] = {
		{MPV_RENDER_PARAM_OPENGL_FBO, &target},
		{MPV_RENDER_PARAM_FLIP_Y, &flip},
		{MPV_RENDER_PARAM_BLOCK_FOR_TARGET_TIME, &block},
		{MPV_RENDER_PARAM_INVALID, NULL},
	};
	return mpv_render_context_render(r, params);
}

static uintptr_t *glint_slot(uintptr_t v) {
	uintptr_t *slot = malloc(sizeof(uintptr_t));
	*slot = v;
	return slot;
}
*/
import "C"

import (
	"fmt"
	"runtime/cgo"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/glint-player/glint/log"
	"github.com/glint-player/glint/property"
)

// LibMPV is an Engine embedding mpv in-process. Its render contexts draw into host framebuffers.
type LibMPV struct {
	handle *C.mpv_handle

	wakeup atomic.Pointer[func()]
	self   cgo.Handle
	slot   *C.uintptr_t

	mu     sync.Mutex
	render *libmpvRender

	exited    chan struct{}
	exitOnce  sync.Once
	closeOnce sync.Once
	observeID atomic.Uint64
}

// StartLibMPV creates and initializes an embedded mpv, loading media when given.
func StartLibMPV(media string) (*LibMPV, error) {
	// libmpv refuses to start under a locale with a non-C decimal separator
	locale := C.CString("C")
	C.setlocale(C.LC_NUMERIC, locale)
	C.free(unsafe.Pointer(locale))

	handle := C.mpv_create()
	if handle == nil {
		return nil, fmt.Errorf("mpv_create failed")
	}

	for _, option := range embeddedOptions() {
		if err := setOption(handle, option[0], option[1]); err != nil {
			C.mpv_terminate_destroy(handle)
			return nil, fmt.Errorf("set option %s: %w", option[0], err)
		}
	}

	if err := mpvError(C.mpv_initialize(handle)); err != nil {
		C.mpv_terminate_destroy(handle)
		return nil, fmt.Errorf("initialize mpv: %w", err)
	}

	m := &LibMPV{handle: handle, exited: make(chan struct{})}
	m.self = cgo.NewHandle(m)
	m.slot = C.glint_slot(C.uintptr_t(m.self))
	C.glint_set_wakeup(handle, unsafe.Pointer(m.slot))

	if media != "" {
		target, err := sanitizeMediaTarget(media)
		if err != nil {
			_ = m.Close()
			return nil, fmt.Errorf("invalid media target: %w", err)
		}
		if err := m.Command("loadfile", target); err != nil {
			_ = m.Close()
			return nil, err
		}
	}

	version := uint64(C.mpv_client_api_version())
	log.Infof("embedded mpv, client API %d.%d", version>>16, version&0xffff)
	return m, nil
}

func setOption(handle *C.mpv_handle, name, value string) error {
	cname, cvalue := C.CString(name), C.CString(value)
	defer C.free(unsafe.Pointer(cname))
	defer C.free(unsafe.Pointer(cvalue))
	return mpvError(C.mpv_set_option_string(handle, cname, cvalue))
}

func mpvError(code C.int) error {
	if code >= 0 {
		return nil
	}
	return fmt.Errorf("mpv: %s", C.GoString(C.mpv_error_string(code)))
}

func (m *LibMPV) SetWakeup(f func()) {
	m.wakeup.Store(&f)
}

func (m *LibMPV) Exited() <-chan struct{} {
	return m.exited
}

func (m *LibMPV) Command(name string, args ...any) error {
	words := append([]string{name}, make([]string, len(args))...)
	for i, arg := range args {
		words[i+1] = commandArg(arg)
	}

	argv := (**C.char)(C.calloc(C.size_t(len(words)+1), C.size_t(unsafe.Sizeof((*C.char)(nil)))))
	defer C.free(unsafe.Pointer(argv))

	slots := unsafe.Slice(argv, len(words)+1)
	for i, word := range words {
		slots[i] = C.CString(word)
	}
	defer func() {
		for _, s := range slots[:len(words)] {
			C.free(unsafe.Pointer(s))
		}
	}()

	return mpvError(C.mpv_command(m.handle, argv))
}

func (m *LibMPV) SetProperty(name string, value any) error {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	switch v := value.(type) {
	case bool:
		flag := C.int(0)
		if v {
			flag = 1
		}
		return mpvError(C.mpv_set_property(m.handle, cname, C.MPV_FORMAT_FLAG, unsafe.Pointer(&flag)))
	case float64:
		d := C.double(v)
		return mpvError(C.mpv_set_property(m.handle, cname, C.MPV_FORMAT_DOUBLE, unsafe.Pointer(&d)))
	default:
		cvalue := C.CString(commandArg(v))
		defer C.free(unsafe.Pointer(cvalue))
		return mpvError(C.mpv_set_property_string(m.handle, cname, cvalue))
	}
}

func (m *LibMPV) GetProperty(name string, kind property.Kind) (any, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	switch kind {
	case property.KindFloat:
		var d C.double
		if err := mpvError(C.mpv_get_property(m.handle, cname, C.MPV_FORMAT_DOUBLE, unsafe.Pointer(&d))); err != nil {
			return nil, err
		}
		return float64(d), nil
	case property.KindBool:
		var flag C.int
		if err := mpvError(C.mpv_get_property(m.handle, cname, C.MPV_FORMAT_FLAG, unsafe.Pointer(&flag))); err != nil {
			return nil, err
		}
		return flag != 0, nil
	default:
		s := C.mpv_get_property_string(m.handle, cname)
		if s == nil {
			return nil, fmt.Errorf("mpv: property %s unavailable", name)
		}
		defer C.mpv_free(unsafe.Pointer(s))
		return C.GoString(s), nil
	}
}

func (m *LibMPV) ObserveProperty(name string, kind property.Kind) error {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	var format C.mpv_format = C.MPV_FORMAT_STRING
	switch kind {
	case property.KindFloat:
		format = C.MPV_FORMAT_DOUBLE
	case property.KindBool:
		format = C.MPV_FORMAT_FLAG
	}
	id := m.observeID.Add(1)
	return mpvError(C.mpv_observe_property(m.handle, C.uint64_t(id), cname, format))
}

func (m *LibMPV) PollEvent(timeout time.Duration) (*NativeEvent, error) {
	ev := C.mpv_wait_event(m.handle, C.double(timeout.Seconds()))

	switch ev.event_id {
	case C.MPV_EVENT_NONE:
		return nil, nil
	case C.MPV_EVENT_START_FILE:
		return &NativeEvent{Kind: NativeStartFile}, nil
	case C.MPV_EVENT_END_FILE:
		end := (*C.mpv_event_end_file)(ev.data)
		return &NativeEvent{Kind: NativeEndFile, Reason: int(end.reason)}, nil
	case C.MPV_EVENT_PROPERTY_CHANGE:
		return propertyEvent((*C.mpv_event_property)(ev.data)), nil
	case C.MPV_EVENT_SHUTDOWN:
		m.exitOnce.Do(func() { close(m.exited) })
	}

	if err := mpvError(ev.error); err != nil {
		return nil, err
	}
	return &NativeEvent{Kind: NativeOther, Name: C.GoString(C.mpv_event_name(ev.event_id))}, nil
}

func propertyEvent(prop *C.mpv_event_property) *NativeEvent {
	ev := &NativeEvent{Kind: NativePropertyChange, Name: C.GoString(prop.name)}
	if prop.data == nil {
		return ev
	}

	switch prop.format {
	case C.MPV_FORMAT_DOUBLE:
		ev.Data = float64(*(*C.double)(prop.data))
	case C.MPV_FORMAT_FLAG:
		ev.Data = *(*C.int)(prop.data) != 0
	case C.MPV_FORMAT_STRING:
		ev.Data = C.GoString(*(**C.char)(prop.data))
	}
	return ev
}

func (m *LibMPV) NewRenderContext(surface Surface, update func()) (RenderContext, error) {
	r := &libmpvRender{owner: m, surface: surface, update: update}
	r.self = cgo.NewHandle(r)
	r.slot = C.glint_slot(C.uintptr_t(r.self))

	if err := mpvError(C.glint_render_create(&r.ctx, m.handle, unsafe.Pointer(r.slot))); err != nil {
		r.release()
		return nil, fmt.Errorf("create render context: %w", err)
	}

	m.mu.Lock()
	m.render = r
	m.mu.Unlock()
	return r, nil
}

// Close frees any live render context, then destroys the mpv core.
func (m *LibMPV) Close() error {
	m.closeOnce.Do(func() {
		m.mu.Lock()
		r := m.render
		m.mu.Unlock()
		if r != nil {
			r.Free()
		}

		C.mpv_terminate_destroy(m.handle)
		m.exitOnce.Do(func() { close(m.exited) })
		m.self.Delete()
		C.free(unsafe.Pointer(m.slot))
	})
	return nil
}

func (m *LibMPV) wake() {
	if f := m.wakeup.Load(); f != nil {
		(*f)()
	}
}

type libmpvRender struct {
	owner   *LibMPV
	ctx     *C.mpv_render_context
	surface Surface
	update  func()

	self cgo.Handle
	slot *C.uintptr_t
	once sync.Once
}

func (r *libmpvRender) Render(fbo uint32, width, height int) error {
	return mpvError(C.glint_render(r.ctx, C.int(fbo), C.int(width), C.int(height)))
}

func (r *libmpvRender) ReportSwap() {
	C.mpv_render_context_report_swap(r.ctx)
}

func (r *libmpvRender) Free() {
	r.once.Do(func() {
		C.mpv_render_context_free(r.ctx)
		r.release()

		r.owner.mu.Lock()
		if r.owner.render == r {
			r.owner.render = nil
		}
		r.owner.mu.Unlock()
	})
}

func (r *libmpvRender) release() {
	r.self.Delete()
	C.free(unsafe.Pointer(r.slot))
}

var _ Process = (*LibMPV)(nil)
