//go:build !cgo

package stub

// Without cgo there is no C compiler in the build to hand out a function
// pointer whose calling convention loaded native code can trust; producing
// one is the "calling-convention adaptation shim" the specification
// explicitly scopes to an external collaborator. These builds can still
// load, relocate, and inspect a library — Library.GetSymbol works exactly
// the same — they just cannot offer a callable stub address for the
// pthread/dlfcn/fallback family. Resolution degrades to returning 0
// (a null host pointer) for symbols that would otherwise bind here.

// PthreadNoopAddr returns 0: no cgo-backed trampoline is available.
func PthreadNoopAddr() uintptr { return 0 }

// FallbackTrapAddr returns 0: no cgo-backed trampoline is available.
func FallbackTrapAddr() uintptr { return 0 }

// DlopenAddr returns 0: no cgo-backed trampoline is available.
func DlopenAddr() uintptr { return 0 }

// DlsymAddr returns 0: no cgo-backed trampoline is available.
func DlsymAddr() uintptr { return 0 }

// DlcloseAddr returns 0: no cgo-backed trampoline is available.
func DlcloseAddr() uintptr { return 0 }
