//go:build cgo && !nolibmpv

package player

/*
#include <stdint.h>
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"
)

func handleAt(ctx unsafe.Pointer) cgo.Handle {
	return cgo.Handle(*(*C.uintptr_t)(ctx))
}

//export glintWakeup
func glintWakeup(ctx unsafe.Pointer) {
	handleAt(ctx).Value().(*LibMPV).wake()
}

//export glintRenderUpdate
func glintRenderUpdate(ctx unsafe.Pointer) {
	handleAt(ctx).Value().(*libmpvRender).update()
}

//export glintProcAddress
func glintProcAddress(ctx unsafe.Pointer, name *C.char) unsafe.Pointer {
	return handleAt(ctx).Value().(*libmpvRender).surface.ProcAddress(C.GoString(name))
}
