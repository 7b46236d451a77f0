//go:build !cgo

package callabi

// Without cgo there is no C compiler available to generate an ABI-correct
// call site, so invocation is unavailable; loading, relocating, and
// resolving symbols all still work without cgo.
func call0(fn uintptr) uintptr     { return 0 }
func call1(fn, a0 uintptr) uintptr { return 0 }
