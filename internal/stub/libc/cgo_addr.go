//go:build cgo

package libc

/*
#include <stdint.h>

#if defined(__x86_64__) || defined(__i386__) || defined(_M_X64) || defined(_M_IX86)
#define AVDL_SYSV __attribute__((sysv_abi))
#else
#define AVDL_SYSV
#endif

extern uintptr_t goAvdlMalloc(uintptr_t size);
extern uintptr_t goAvdlCalloc(uintptr_t n, uintptr_t size);
extern uintptr_t goAvdlRealloc(uintptr_t ptr, uintptr_t size);
extern uintptr_t goAvdlFree(uintptr_t ptr);
extern uintptr_t goAvdlMemcpy(uintptr_t dst, uintptr_t src, uintptr_t n);
extern uintptr_t goAvdlMemmove(uintptr_t dst, uintptr_t src, uintptr_t n);
extern uintptr_t goAvdlMemset(uintptr_t dst, uintptr_t c, uintptr_t n);
extern uintptr_t goAvdlStrlen(uintptr_t s);
extern uintptr_t goAvdlStrcmp(uintptr_t a, uintptr_t b);
extern uintptr_t goAvdlStrncmp(uintptr_t a, uintptr_t b, uintptr_t n);
extern uintptr_t goAvdlStrcpy(uintptr_t dst, uintptr_t src);
extern uintptr_t goAvdlStrncpy(uintptr_t dst, uintptr_t src, uintptr_t n);

// Sysv_abi-pinned trampolines, same rationale as internal/stub/dl_cgo_addr.go:
// these addresses, not the raw Go exports, are what the relocator binds
// into loaded images.
AVDL_SYSV static uintptr_t avdlMalloc(uintptr_t size) { return goAvdlMalloc(size); }
AVDL_SYSV static uintptr_t avdlCalloc(uintptr_t n, uintptr_t size) { return goAvdlCalloc(n, size); }
AVDL_SYSV static uintptr_t avdlRealloc(uintptr_t ptr, uintptr_t size) { return goAvdlRealloc(ptr, size); }
AVDL_SYSV static uintptr_t avdlFree(uintptr_t ptr) { return goAvdlFree(ptr); }
AVDL_SYSV static uintptr_t avdlMemcpy(uintptr_t dst, uintptr_t src, uintptr_t n) { return goAvdlMemcpy(dst, src, n); }
AVDL_SYSV static uintptr_t avdlMemmove(uintptr_t dst, uintptr_t src, uintptr_t n) { return goAvdlMemmove(dst, src, n); }
AVDL_SYSV static uintptr_t avdlMemset(uintptr_t dst, uintptr_t c, uintptr_t n) { return goAvdlMemset(dst, c, n); }
AVDL_SYSV static uintptr_t avdlStrlen(uintptr_t s) { return goAvdlStrlen(s); }
AVDL_SYSV static uintptr_t avdlStrcmp(uintptr_t a, uintptr_t b) { return goAvdlStrcmp(a, b); }
AVDL_SYSV static uintptr_t avdlStrncmp(uintptr_t a, uintptr_t b, uintptr_t n) { return goAvdlStrncmp(a, b, n); }
AVDL_SYSV static uintptr_t avdlStrcpy(uintptr_t dst, uintptr_t src) { return goAvdlStrcpy(dst, src); }
AVDL_SYSV static uintptr_t avdlStrncpy(uintptr_t dst, uintptr_t src, uintptr_t n) { return goAvdlStrncpy(dst, src, n); }
*/
import "C"
import "unsafe"

// BuiltinAddr resolves the host address of one of the libc/C++-runtime
// stub symbols this package supplies. ok is false for any name this
// package does not cover.
func BuiltinAddr(name string) (addr uintptr, ok bool) {
	switch name {
	case "malloc":
		return uintptr(unsafe.Pointer(C.avdlMalloc)), true
	case "calloc":
		return uintptr(unsafe.Pointer(C.avdlCalloc)), true
	case "realloc":
		return uintptr(unsafe.Pointer(C.avdlRealloc)), true
	case "free":
		return uintptr(unsafe.Pointer(C.avdlFree)), true
	case "memcpy":
		return uintptr(unsafe.Pointer(C.avdlMemcpy)), true
	case "memmove":
		return uintptr(unsafe.Pointer(C.avdlMemmove)), true
	case "memset":
		return uintptr(unsafe.Pointer(C.avdlMemset)), true
	case "strlen":
		return uintptr(unsafe.Pointer(C.avdlStrlen)), true
	case "strcmp":
		return uintptr(unsafe.Pointer(C.avdlStrcmp)), true
	case "strncmp":
		return uintptr(unsafe.Pointer(C.avdlStrncmp)), true
	case "strcpy":
		return uintptr(unsafe.Pointer(C.avdlStrcpy)), true
	case "strncpy":
		return uintptr(unsafe.Pointer(C.avdlStrncpy)), true
	// C++ operator new/delete mangled names: backed directly by
	// malloc/free, matching galago's internal/stubs/libc.go treatment of
	// _Znwm/_Znam/_ZdlPv/_ZdaPv.
	case "_Znwm", "_Znam":
		return uintptr(unsafe.Pointer(C.avdlMalloc)), true
	case "_ZdlPv", "_ZdaPv", "_ZdlPvm":
		return uintptr(unsafe.Pointer(C.avdlFree)), true
	default:
		return 0, false
	}
}
