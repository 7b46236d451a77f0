// Package callabi invokes an exported function inside a loaded library
// directly, under the System V AMD64 convention loaded Android code
// expects. This is the forward direction of the calling-convention
// boundary the specification names in §1 as belonging to an external
// collaborator on hosts whose default ABI differs from System V AMD64
// (notably Windows); on Linux and macOS hosts, cgo's own C calling
// convention already is System V AMD64, so no adaptation is required and
// this package's cgo trampoline (modeled on reflektor's memmod call
// helpers) suffices directly.
package callabi

// Call0 invokes a zero-argument function at fn and returns its result.
func Call0(fn uintptr) uintptr { return call0(fn) }

// Call1 invokes a one-argument function at fn with a0 and returns its
// result.
func Call1(fn, a0 uintptr) uintptr { return call1(fn, a0) }
