// Package resolve implements the Symbol Resolver: given a symbol name and
// an optional hook set, it returns the host address that loaded code
// should see for that symbol. It never consults the
// library's own symbol table — intra-library references are handled as
// relative relocations by the loader, not as resolved names — which keeps
// this resolver single-purpose (external linkage only).
package resolve

import (
	"github.com/avdl/avdl/internal/hook"
	"github.com/avdl/avdl/internal/obs"
	"github.com/avdl/avdl/internal/stub"
	"github.com/avdl/avdl/internal/stub/libc"
)

// Resolve implements the four-step dispatch from the specification:
// hooks, then pthread_*, then the dlopen/dlsym/dlclose trio (plus the
// supplemented libc/C++-runtime family), then the fallback trap.
func Resolve(name string, hooks hook.Set) uintptr {
	if addr, ok := hooks[name]; ok {
		obs.Resolve(name, "hook", addr)
		return addr
	}
	if stub.IsPthreadSymbol(name) {
		addr := stub.PthreadNoopAddr()
		obs.Resolve(name, "pthread-noop", addr)
		return addr
	}
	if stub.IsDlfcnSymbol(name) {
		addr := dlfcnAddr(name)
		obs.Resolve(name, "dlfcn", addr)
		return addr
	}
	if addr, ok := libc.BuiltinAddr(name); ok {
		obs.Resolve(name, "libc-stub", addr)
		return addr
	}
	addr := stub.FallbackTrapAddr()
	obs.Resolve(name, "fallback", addr)
	return addr
}

func dlfcnAddr(name string) uintptr {
	switch name {
	case "dlopen":
		return stub.DlopenAddr()
	case "dlsym":
		return stub.DlsymAddr()
	case "dlclose":
		return stub.DlcloseAddr()
	default:
		return stub.FallbackTrapAddr()
	}
}
