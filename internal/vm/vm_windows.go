//go:build windows

package vm

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	pageSizeOnce sync.Once
	pageSize     int
)

// PageSize returns the host's page size in bytes.
func PageSize() int {
	pageSizeOnce.Do(func() {
		var info windows.SystemInfo
		windows.GetSystemInfo(&info)
		pageSize = int(info.PageSize)
	})
	return pageSize
}

type windowsRegion struct {
	mu   sync.Mutex
	addr uintptr
	size int
	mem  []byte
}

// Map creates a fresh, zero-filled, read-write anonymous mapping of size
// bytes via VirtualAlloc.
func Map(size int) (Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("vm: invalid mapping size %d", size)
	}
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, &ErrAllocationFailed{Cause: err}
	}
	mem := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
	return &windowsRegion{addr: addr, size: size, mem: mem}, nil
}

func (r *windowsRegion) Bytes() []byte { return r.mem }

func (r *windowsRegion) Base() uintptr { return r.addr }

func (r *windowsRegion) Protect(offset, length int, prot Prot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if offset < 0 || length < 0 || offset+length > r.size {
		return fmt.Errorf("vm: protect range [%d,%d) out of bounds (len=%d)", offset, offset+length, r.size)
	}
	if length == 0 {
		return nil
	}
	var oldProt uint32
	if err := windows.VirtualProtect(r.addr+uintptr(offset), uintptr(length), protToWindows(prot), &oldProt); err != nil {
		return &ErrProtectionFailed{Cause: err}
	}
	return nil
}

func (r *windowsRegion) Unmap() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.addr == 0 {
		return nil
	}
	err := windows.VirtualFree(r.addr, 0, windows.MEM_RELEASE)
	r.addr = 0
	r.mem = nil
	return err
}

// protToWindows maps our {R,W,X} bitmask to the closest PAGE_* constant.
// Windows has no independent R/W/X bits, so W+X degrades to the execute-
// read-write tier, matching the large-page-compensation spirit of the
// spec even outside that code path.
func protToWindows(p Prot) uint32 {
	r := p&ProtRead != 0
	w := p&ProtWrite != 0
	x := p&ProtExec != 0
	switch {
	case x && w:
		return windows.PAGE_EXECUTE_READWRITE
	case x && r:
		return windows.PAGE_EXECUTE_READ
	case x:
		return windows.PAGE_EXECUTE
	case w:
		return windows.PAGE_READWRITE
	case r:
		return windows.PAGE_READONLY
	default:
		return windows.PAGE_NOACCESS
	}
}
