//go:build cgo

package stub

/*
#include <stdint.h>

// sysv_abi/ms_abi are x86-only calling-convention attributes; on any
// other host architecture there is only one C convention, so the macro
// is a no-op there instead of a compiler warning.
#if defined(__x86_64__) || defined(__i386__) || defined(_M_X64) || defined(_M_IX86)
#define AVDL_SYSV __attribute__((sysv_abi))
#else
#define AVDL_SYSV
#endif

extern uintptr_t goAvdlPthreadNoop(void);
extern uintptr_t goAvdlFallbackTrap(void);
extern uintptr_t goAvdlDlopen(uintptr_t name);
extern uintptr_t goAvdlDlsym(uintptr_t handle, uintptr_t name);
extern uintptr_t goAvdlDlclose(uintptr_t handle);

// Each of these is the actual address handed back to the relocator and
// written into the loaded image: a thin trampoline pinned to the
// System V AMD64 convention, exactly as spec §4.2/§9 requires of "every
// host stub exposed to loaded code", regardless of the host's own
// default ABI (notably the Microsoft x64 ABI a cgo/mingw build targets
// on Windows). The trampoline's body is an ordinary C call into the Go
// export, whose own convention cgo already handles.
AVDL_SYSV static uintptr_t avdlPthreadNoop(void) { return goAvdlPthreadNoop(); }
AVDL_SYSV static uintptr_t avdlFallbackTrap(void) { return goAvdlFallbackTrap(); }
AVDL_SYSV static uintptr_t avdlDlopen(uintptr_t name) { return goAvdlDlopen(name); }
AVDL_SYSV static uintptr_t avdlDlsym(uintptr_t handle, uintptr_t name) { return goAvdlDlsym(handle, name); }
AVDL_SYSV static uintptr_t avdlDlclose(uintptr_t handle) { return goAvdlDlclose(handle); }
*/
import "C"
import "unsafe"

// PthreadNoopAddr returns the host address of the pthread no-op stub.
func PthreadNoopAddr() uintptr { return uintptr(unsafe.Pointer(C.avdlPthreadNoop)) }

// FallbackTrapAddr returns the host address of the panicking fallback trap.
func FallbackTrapAddr() uintptr { return uintptr(unsafe.Pointer(C.avdlFallbackTrap)) }

// DlopenAddr returns the host address of the dlopen stub.
func DlopenAddr() uintptr { return uintptr(unsafe.Pointer(C.avdlDlopen)) }

// DlsymAddr returns the host address of the dlsym stub.
func DlsymAddr() uintptr { return uintptr(unsafe.Pointer(C.avdlDlsym)) }

// DlcloseAddr returns the host address of the dlclose stub.
func DlcloseAddr() uintptr { return uintptr(unsafe.Pointer(C.avdlDlclose)) }
