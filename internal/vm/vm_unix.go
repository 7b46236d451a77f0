//go:build linux || darwin

package vm

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

var (
	pageSizeOnce sync.Once
	pageSize     int
)

// PageSize returns the host's page size in bytes.
func PageSize() int {
	pageSizeOnce.Do(func() {
		pageSize = unix.Getpagesize()
	})
	return pageSize
}

type unixRegion struct {
	mu  sync.Mutex
	mem []byte
}

// Map creates a fresh, zero-filled, read-write anonymous mapping of size
// bytes.
func Map(size int) (Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("vm: invalid mapping size %d", size)
	}
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, &ErrAllocationFailed{Cause: err}
	}
	return &unixRegion{mem: mem}, nil
}

func (r *unixRegion) Bytes() []byte { return r.mem }

func (r *unixRegion) Base() uintptr {
	if len(r.mem) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&r.mem[0]))
}

func (r *unixRegion) Protect(offset, length int, prot Prot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if offset < 0 || length < 0 || offset+length > len(r.mem) {
		return fmt.Errorf("vm: protect range [%d,%d) out of bounds (len=%d)", offset, offset+length, len(r.mem))
	}
	if length == 0 {
		return nil
	}
	seg := r.mem[offset : offset+length]
	if err := unix.Mprotect(seg, protToUnix(prot)); err != nil {
		return &ErrProtectionFailed{Cause: err}
	}
	return nil
}

func (r *unixRegion) Unmap() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.mem == nil {
		return nil
	}
	err := unix.Munmap(r.mem)
	r.mem = nil
	return err
}

func protToUnix(p Prot) int {
	out := unix.PROT_NONE
	if p&ProtRead != 0 {
		out |= unix.PROT_READ
	}
	if p&ProtWrite != 0 {
		out |= unix.PROT_WRITE
	}
	if p&ProtExec != 0 {
		out |= unix.PROT_EXEC
	}
	return out
}
