//go:build cgo

package libc

/*
#include <stdint.h>
*/
import "C"

// As in internal/stub/dl_cgo.go, these are the Go-side implementations;
// the symbols loaded code actually resolves and calls are the
// sysv_abi-pinned C trampolines in cgo_addr.go.

//export goAvdlMalloc
func goAvdlMalloc(size C.uintptr_t) C.uintptr_t { return C.uintptr_t(Malloc(int(size))) }

//export goAvdlCalloc
func goAvdlCalloc(n, size C.uintptr_t) C.uintptr_t { return C.uintptr_t(Calloc(int(n), int(size))) }

//export goAvdlRealloc
func goAvdlRealloc(ptr, size C.uintptr_t) C.uintptr_t {
	return C.uintptr_t(Realloc(uintptr(ptr), int(size)))
}

//export goAvdlFree
func goAvdlFree(ptr C.uintptr_t) C.uintptr_t {
	Free(uintptr(ptr))
	return 0
}

//export goAvdlMemcpy
func goAvdlMemcpy(dst, src, n C.uintptr_t) C.uintptr_t {
	return C.uintptr_t(Memcpy(uintptr(dst), uintptr(src), int(n)))
}

//export goAvdlMemmove
func goAvdlMemmove(dst, src, n C.uintptr_t) C.uintptr_t {
	return C.uintptr_t(Memmove(uintptr(dst), uintptr(src), int(n)))
}

//export goAvdlMemset
func goAvdlMemset(dst, c, n C.uintptr_t) C.uintptr_t {
	return C.uintptr_t(Memset(uintptr(dst), byte(c), int(n)))
}

//export goAvdlStrlen
func goAvdlStrlen(s C.uintptr_t) C.uintptr_t { return C.uintptr_t(Strlen(uintptr(s))) }

//export goAvdlStrcmp
func goAvdlStrcmp(a, b C.uintptr_t) C.uintptr_t {
	return C.uintptr_t(int64ToWord(int64(Strcmp(uintptr(a), uintptr(b)))))
}

//export goAvdlStrncmp
func goAvdlStrncmp(a, b, n C.uintptr_t) C.uintptr_t {
	return C.uintptr_t(int64ToWord(int64(Strncmp(uintptr(a), uintptr(b), int(n)))))
}

//export goAvdlStrcpy
func goAvdlStrcpy(dst, src C.uintptr_t) C.uintptr_t {
	return C.uintptr_t(Strcpy(uintptr(dst), uintptr(src)))
}

//export goAvdlStrncpy
func goAvdlStrncpy(dst, src, n C.uintptr_t) C.uintptr_t {
	return C.uintptr_t(Strncpy(uintptr(dst), uintptr(src), int(n)))
}

func int64ToWord(v int64) uintptr { return uintptr(v) }
