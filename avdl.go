// Package avdl is a user-space dynamic linker for Android ELF shared
// objects: it maps a library's loadable segments into the host process's
// own address space, resolves its dynamic symbols, relocates it for four
// instruction-set architectures, and hands back a handle whose exported
// functions the host can call directly — as if the library had been
// loaded by the Android dynamic linker itself.
package avdl

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/avdl/avdl/internal/callabi"
	"github.com/avdl/avdl/internal/hook"
	"github.com/avdl/avdl/internal/loader"
	"github.com/avdl/avdl/internal/stub"
)

// ErrLibraryClosed is returned by operations on a Library after Close.
var ErrLibraryClosed = errors.New("avdl: library is closed")

// HookSet maps an external symbol name to the host address loaded code
// should observe for it. A HookSet takes precedence over every built-in
// stub, including pthread_* and dlopen/dlsym/dlclose.
type HookSet = hook.Set

// Library is a loaded Android shared object: an owning handle to its
// memory image plus the indexes needed to resolve exported symbols by
// name.
type Library struct {
	mu     sync.RWMutex
	inner  *loader.Library
	closed bool
}

// LoadLibrary loads a shared object image from memory using only the
// process-wide hook registry (see RegisterHook).
func LoadLibrary(data []byte) (*Library, error) {
	return LoadLibraryWithHooks(data, hook.Default().Snapshot())
}

// LoadLibraryWithHooks loads a shared object image from memory, resolving
// external symbols against the supplied hook set before falling back to
// the built-in stub library.
func LoadLibraryWithHooks(data []byte, hooks HookSet) (*Library, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("avdl: empty library image")
	}
	inner, err := loader.Load(data, hooks)
	if err != nil {
		return nil, fmt.Errorf("avdl: load library: %w", err)
	}
	return &Library{inner: inner}, nil
}

// LoadLibraryFile reads path from disk and loads it, using the process-
// wide hook registry.
func LoadLibraryFile(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("avdl: read library file: %w", err)
	}
	return LoadLibrary(data)
}

// LoadLibraryFileWithHooks reads path from disk and loads it against the
// supplied hook set.
func LoadLibraryFileWithHooks(path string, hooks HookSet) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("avdl: read library file: %w", err)
	}
	return LoadLibraryWithHooks(data, hooks)
}

// GetSymbol returns the absolute host address of name, or false if it is
// not an exported dynamic symbol of this library.
func (l *Library) GetSymbol(name string) (uintptr, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return 0, false
	}
	return l.inner.GetSymbol(name)
}

// Symbols returns the names of every named dynamic symbol, including
// undefined (imported) ones.
func (l *Library) Symbols() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return nil
	}
	return l.inner.Symbols()
}

// Close releases the library's image. Double-close is a no-op.
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	return l.inner.Close()
}

// Call0 resolves a zero-argument exported function by name and invokes it
// directly under the System V AMD64 convention, returning its result.
func (l *Library) Call0(name string) (uintptr, error) {
	addr, ok := l.GetSymbol(name)
	if !ok {
		return 0, fmt.Errorf("avdl: symbol %q not found", name)
	}
	return callabi.Call0(addr), nil
}

// Call1 resolves a one-argument exported function by name and invokes it
// with a0, returning its result. Without cgo no call is made and the
// result is 0.
func (l *Library) Call1(name string, a0 uintptr) (uintptr, error) {
	addr, ok := l.GetSymbol(name)
	if !ok {
		return 0, fmt.Errorf("avdl: symbol %q not found", name)
	}
	return callabi.Call1(addr, a0), nil
}

// RegisterHook installs name -> addr in the process-wide hook registry
// that LoadLibrary (without an explicit hook set) consults.
func RegisterHook(name string, addr uintptr) {
	hook.Default().Register(name, addr)
}

// UnregisterHook removes any process-wide hook binding for name.
func UnregisterHook(name string) {
	hook.Default().Unregister(name)
}

func init() {
	// Wires the dlopen stub's recursive re-entry into the loader without
	// internal/stub importing this package back.
	stub.LoadFunc = func(path string) (stub.LoadedLibrary, error) {
		return LoadLibraryFile(path)
	}
}
