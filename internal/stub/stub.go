// Package stub implements the Stub Library: built-in host functions that
// stand in for unresolved imports so that resolution never fails for lack
// of a binding. It provides the pthread no-op, the dlopen/dlsym/dlclose
// trio (which recursively re-enters the loader), and the panicking
// fallback trap — plus a small libc/C++-runtime stub family the
// motivating DRM/device-identity workloads routinely import.
//
// This file holds the platform-independent bookkeeping. The ABI-correct,
// host-callable entry points themselves live in dl_cgo.go /
// dl_nocgo.go, gated on cgo availability: producing a function pointer
// that loaded native code can call under the System V AMD64 convention
// requires a real C compiler in the build, which is exactly the
// "calling-convention adaptation shim" the specification treats as an
// external collaborator's concern.
package stub

import (
	"encoding/binary"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// LoadedLibrary is the minimal surface the dlopen/dlsym/dlclose stubs need
// from a loaded library. It is satisfied structurally by the top-level
// Library type; defining it here (rather than importing that package)
// avoids an import cycle between the core package and its own stub
// library, which must be able to recursively invoke the loader.
type LoadedLibrary interface {
	GetSymbol(name string) (uintptr, bool)
	Close() error
}

// LoadFunc, when set, is invoked by the dlopen stub to recursively enter
// the loader. The top-level package wires this in an init() so that
// internal/stub never imports it back.
var LoadFunc func(path string) (LoadedLibrary, error)

var (
	handlesMu sync.Mutex
	handles   = make(map[uintptr]LoadedLibrary)
)

// newHandle allocates a fresh, non-zero, never-reused-while-live opaque
// handle. Handles are derived from a random UUIDv4 rather than a
// predictable counter so a forged or stale handle is very unlikely to
// collide with a live one; only the low 8 bytes are folded into the
// uintptr the dlfcn contract expects.
func newHandle() uintptr {
	for {
		id, err := uuid.NewRandom()
		if err != nil {
			// Entropy exhaustion is effectively unrecoverable on any real
			// host; fall back to a fixed non-zero pattern rather than loop
			// forever.
			return 0xA11CE
		}
		h := uintptr(binary.LittleEndian.Uint64(id[:8]))
		if h == 0 {
			continue
		}
		handlesMu.Lock()
		_, taken := handles[h]
		handlesMu.Unlock()
		if !taken {
			return h
		}
	}
}

// dlopen implements the dlopen(name) contract: name is a NUL-terminated
// host path, with backslashes folded to forward slashes on Windows-family
// hosts before use. Returns an opaque non-null handle on success, 0 on
// failure.
func dlopen(path string) uintptr {
	path = normalizePath(path)
	if LoadFunc == nil {
		return 0
	}
	lib, err := LoadFunc(path)
	if err != nil || lib == nil {
		return 0
	}
	h := newHandle()
	handlesMu.Lock()
	handles[h] = lib
	handlesMu.Unlock()
	return h
}

// dlsym implements dlsym(h, name): the absolute host address of name in
// the library referenced by h, or 0 if h is 0 or the symbol is absent.
func dlsym(handle uintptr, name string) uintptr {
	if handle == 0 {
		return 0
	}
	handlesMu.Lock()
	lib, ok := handles[handle]
	handlesMu.Unlock()
	if !ok {
		return 0
	}
	addr, ok := lib.GetSymbol(name)
	if !ok {
		return 0
	}
	return addr
}

// dlclose implements dlclose(h): destroys the library and its image.
// Double-close is forbidden; a second call for the same handle returns a
// nonzero error code instead of touching already-freed state.
func dlclose(handle uintptr) uintptr {
	if handle == 0 {
		return 1
	}
	handlesMu.Lock()
	lib, ok := handles[handle]
	if ok {
		delete(handles, handle)
	}
	handlesMu.Unlock()
	if !ok {
		return 1
	}
	if err := lib.Close(); err != nil {
		return 1
	}
	return 0
}

// IsPthreadSymbol reports whether name is handled by the pthread no-op
// family: any symbol beginning with "pthread_".
func IsPthreadSymbol(name string) bool {
	return strings.HasPrefix(name, "pthread_")
}

// IsDlfcnSymbol reports whether name is one of the dlopen/dlsym/dlclose
// trio.
func IsDlfcnSymbol(name string) bool {
	switch name {
	case "dlopen", "dlsym", "dlclose":
		return true
	default:
		return false
	}
}

func normalizePath(path string) string {
	if isWindowsHost() {
		return strings.ReplaceAll(path, `\`, "/")
	}
	return path
}

// FallbackPanic is the body of the panicking fallback trap: invoking an
// otherwise-unresolved symbol is a programming error that terminates the
// process, per the spec's rationale that binding to a trap makes the
// failure observable at first call rather than as a wild jump.
func FallbackPanic(name string) {
	panic(fmt.Sprintf("avdl: unresolved symbol invoked: %s", name))
}
