//go:build cgo

package callabi

/*
#include <stdint.h>

#if defined(__x86_64__) || defined(__i386__) || defined(_M_X64) || defined(_M_IX86)
#define AVDL_SYSV __attribute__((sysv_abi))
#else
#define AVDL_SYSV
#endif

// Loaded Android code always expects to be called under the System V
// AMD64 convention (spec §1/§9), even on a host whose own default C
// ABI differs (the Microsoft x64 ABI on Windows). Pinning the function
// pointer typedef, not just the call site, is what makes the compiler
// emit a sysv-convention call here regardless of the host default.
typedef uintptr_t (AVDL_SYSV *avdl_fn0)(void);
typedef uintptr_t (AVDL_SYSV *avdl_fn1)(uintptr_t);

static uintptr_t avdl_call0(uintptr_t fn) {
	return ((avdl_fn0)fn)();
}

static uintptr_t avdl_call1(uintptr_t fn, uintptr_t a0) {
	return ((avdl_fn1)fn)(a0);
}
*/
import "C"

func call0(fn uintptr) uintptr {
	return uintptr(C.avdl_call0(C.uintptr_t(fn)))
}

func call1(fn, a0 uintptr) uintptr {
	return uintptr(C.avdl_call1(C.uintptr_t(fn), C.uintptr_t(a0)))
}
