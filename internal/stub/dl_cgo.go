//go:build cgo

package stub

/*
#include <stdint.h>
*/
import "C"
import "unsafe"

// These are the Go-side implementations cgo exports; their own calling
// convention is whatever cgo's generated glue uses. The symbols loaded
// native code actually resolves and calls are the sysv_abi-pinned C
// trampolines in dl_cgo_addr.go, which cross into these by ordinary C
// call. None of them allocates Go memory that outlives the call or
// retains a Go pointer past return, so they are safe to invoke from
// arbitrary native code per cgo's pointer-passing rules.

//export goAvdlPthreadNoop
func goAvdlPthreadNoop() C.uintptr_t {
	return 0
}

//export goAvdlFallbackTrap
func goAvdlFallbackTrap() C.uintptr_t {
	FallbackPanic("<unresolved>")
	return 0 // unreachable
}

//export goAvdlDlopen
func goAvdlDlopen(namePtr C.uintptr_t) C.uintptr_t {
	if namePtr == 0 {
		return 0
	}
	name := C.GoString((*C.char)(unsafe.Pointer(uintptr(namePtr))))
	return C.uintptr_t(dlopen(name))
}

//export goAvdlDlsym
func goAvdlDlsym(handle C.uintptr_t, namePtr C.uintptr_t) C.uintptr_t {
	if namePtr == 0 {
		return 0
	}
	name := C.GoString((*C.char)(unsafe.Pointer(uintptr(namePtr))))
	return C.uintptr_t(dlsym(uintptr(handle), name))
}

//export goAvdlDlclose
func goAvdlDlclose(handle C.uintptr_t) C.uintptr_t {
	return C.uintptr_t(dlclose(uintptr(handle)))
}
