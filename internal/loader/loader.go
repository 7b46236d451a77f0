// Package loader implements the Loader Engine: the three-phase driver that
// turns a parsed ELF view into a finalized Library — allocate (compute the
// span, create the anonymous mapping, ingest dynamic symbols), load (copy
// each PT_LOAD segment into the mapping and apply per-page protection),
// and relocate (walk the relocation table and patch the image).
package loader

import (
	"fmt"
	"sync"

	"github.com/avdl/avdl/internal/elfview"
	"github.com/avdl/avdl/internal/hook"
	"github.com/avdl/avdl/internal/vm"
)

// symbolEntry is {name, value} where value is an offset into the image,
// per the data model.
type symbolEntry struct {
	Name  string
	Value uint64
}

// Library is the value produced by a successful load: an owning handle to
// the allocated memory image, plus the two indexes the data model names.
type Library struct {
	mu         sync.RWMutex
	region     vm.Region
	symbols    map[string]symbolEntry // name -> {name, value}
	strings    map[int]string         // dynsym index -> name
	allocStart uint64                 // load bias subtracted from raw vaddrs
	closed     bool
}

// Load runs all three phases against raw ELF bytes and a hook snapshot,
// producing a finalized Library or a taxonomy error from §7. No partial
// Library escapes a failed load; any memory already mapped is released
// before Load returns.
func Load(raw []byte, hooks hook.Set) (*Library, error) {
	view, err := elfview.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrElfParse, err)
	}

	lib, err := allocate(view)
	if err != nil {
		return nil, err
	}

	ok := false
	defer func() {
		if !ok {
			_ = lib.region.Unmap()
		}
	}()

	if err := loadSegments(lib, view); err != nil {
		return nil, err
	}
	if err := relocate(lib, view, hooks); err != nil {
		return nil, err
	}

	ok = true
	return lib, nil
}

// GetSymbol returns the absolute host address of name, or false if name is
// not in the dynamic symbol table, per the data model's get_symbol
// operation. Undefined (imported) entries are included; their address is
// computed from their st_value like any other.
func (l *Library) GetSymbol(name string) (uintptr, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return 0, false
	}
	sym, ok := l.symbols[name]
	if !ok {
		return 0, false
	}
	return l.region.Base() + uintptr(sym.Value), true
}

// Symbols returns the names of every named dynamic symbol, including
// undefined (imported) ones. Order is unspecified; callers that want a
// stable order should sort it themselves.
func (l *Library) Symbols() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return nil
	}
	names := make([]string, 0, len(l.symbols))
	for name := range l.symbols {
		names = append(names, name)
	}
	return names
}

// Base returns the host address of the image's first byte.
func (l *Library) Base() uintptr {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return 0
	}
	return l.region.Base()
}

// Close releases the image. Double-close is a no-op, matching the
// specification's destruction contract.
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	return l.region.Unmap()
}
