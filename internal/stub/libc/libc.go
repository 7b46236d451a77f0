// Package libc supplements the stub library's three named families
// (pthread/dlfcn/fallback, per the specification) with the small, fixed
// set of libc and C++-runtime symbols that real Android DRM and
// device-identity shared objects routinely import: allocation,
// mem/str primitives, and the operator new/delete mangled names. This is
// additive within the spec's "stub library" concept — the spec's
// Non-goals exclude full Android runtime emulation, not a minimally
// useful libc.
//
// Allocation is a bump allocator over a dedicated anonymous region rather
// than a general-purpose heap: stubs exist to keep resolution from
// crashing, not to be a production allocator, and a bump allocator makes
// every returned pointer a real, dereferenceable offset into host memory
// without tracking frees.
package libc

import (
	"sync"

	"github.com/avdl/avdl/internal/vm"
)

const heapSize = 16 << 20 // 16 MiB

var (
	heapOnce   sync.Once
	heapRegion vm.Region
	heapMu     sync.Mutex
	heapOffset int
)

func heap() []byte {
	heapOnce.Do(func() {
		r, err := vm.Map(heapSize)
		if err != nil {
			// Stub allocation failing is not a load-time error the spec's
			// taxonomy models (it only happens if the host is exhausted of
			// memory for a 16 MiB scratch region); degrade to a nil heap so
			// callers observe null pointers instead of crashing the host
			// process outright.
			return
		}
		if err := r.Protect(0, heapSize, vm.ProtRead|vm.ProtWrite); err != nil {
			return
		}
		heapRegion = r
	})
	if heapRegion == nil {
		return nil
	}
	return heapRegion.Bytes()
}

const align = 16

func alloc(size int) uintptr {
	if size < 0 {
		return 0
	}
	h := heap()
	if h == nil {
		return 0
	}
	heapMu.Lock()
	defer heapMu.Unlock()

	start := (heapOffset + align - 1) &^ (align - 1)
	if start+size > len(h) {
		return 0
	}
	heapOffset = start + size
	return heapRegion.Base() + uintptr(start)
}

func bytesAt(addr uintptr, n int) []byte {
	if addr == 0 || n < 0 {
		return nil
	}
	base := heapRegion.Base()
	h := heapRegion.Bytes()
	if addr < base || int(addr-base)+n > len(h) {
		return nil
	}
	off := int(addr - base)
	return h[off : off+n]
}

func cStringAt(addr uintptr, maxLen int) []byte {
	if addr == 0 {
		return nil
	}
	base := heapRegion.Base()
	h := heapRegion.Bytes()
	if addr < base || int(addr-base) >= len(h) {
		return nil
	}
	off := int(addr - base)
	limit := len(h)
	if maxLen >= 0 && off+maxLen < limit {
		limit = off + maxLen
	}
	end := off
	for end < limit && h[end] != 0 {
		end++
	}
	return h[off:end]
}

// Malloc allocates size bytes and returns a pointer into the stub heap, or
// 0 if the allocation cannot be satisfied.
func Malloc(size int) uintptr { return alloc(size) }

// Calloc allocates n*size zero-filled bytes (the heap is already
// zero-filled, matching mmap's guarantee, so this is Malloc plus an
// overflow check).
func Calloc(n, size int) uintptr {
	if n < 0 || size < 0 {
		return 0
	}
	total := n * size
	if size != 0 && total/size != n {
		return 0 // overflow
	}
	return alloc(total)
}

// Realloc allocates a new size-byte block and copies over the lesser of
// the old and new sizes. Without per-allocation bookkeeping the "old size"
// is unknown, so this copies up to size bytes from the old pointer's
// remaining heap extent — sufficient for the shrink-or-grow-in-place
// patterns these stubs exist to unblock, not a general realloc.
func Realloc(oldPtr uintptr, size int) uintptr {
	newPtr := alloc(size)
	if newPtr == 0 || oldPtr == 0 {
		return newPtr
	}
	base := heapRegion.Base()
	if oldPtr < base {
		return newPtr
	}
	avail := len(heapRegion.Bytes()) - int(oldPtr-base)
	n := size
	if avail < n {
		n = avail
	}
	if n > 0 {
		src := bytesAt(oldPtr, n)
		dst := bytesAt(newPtr, n)
		copy(dst, src)
	}
	return newPtr
}

// Free is a no-op: the bump allocator never reclaims.
func Free(ptr uintptr) {}

// Memcpy copies n bytes from src to dst and returns dst.
func Memcpy(dst, src uintptr, n int) uintptr {
	copy(bytesAt(dst, n), bytesAt(src, n))
	return dst
}

// Memmove copies n bytes from src to dst, tolerating overlap, and returns
// dst.
func Memmove(dst, src uintptr, n int) uintptr {
	s := bytesAt(src, n)
	d := bytesAt(dst, n)
	if s == nil || d == nil {
		return dst
	}
	tmp := make([]byte, n)
	copy(tmp, s)
	copy(d, tmp)
	return dst
}

// Memset fills n bytes at dst with the low byte of c and returns dst.
func Memset(dst uintptr, c byte, n int) uintptr {
	d := bytesAt(dst, n)
	for i := range d {
		d[i] = c
	}
	return dst
}

// Strlen returns the length of the NUL-terminated string at s.
func Strlen(s uintptr) int {
	return len(cStringAt(s, -1))
}

// Strcmp compares the NUL-terminated strings at a and b.
func Strcmp(a, b uintptr) int {
	return compareCStrings(cStringAt(a, -1), cStringAt(b, -1))
}

// Strncmp compares at most n bytes of the NUL-terminated strings at a and
// b.
func Strncmp(a, b uintptr, n int) int {
	sa, sb := cStringAt(a, n), cStringAt(b, n)
	if len(sa) > n {
		sa = sa[:n]
	}
	if len(sb) > n {
		sb = sb[:n]
	}
	return compareCStrings(sa, sb)
}

func compareCStrings(a, b []byte) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// Strcpy copies the NUL-terminated string at src to dst (including the
// terminator) and returns dst.
func Strcpy(dst, src uintptr) uintptr {
	s := cStringAt(src, -1)
	d := bytesAt(dst, len(s)+1)
	if d == nil {
		return dst
	}
	copy(d, s)
	d[len(s)] = 0
	return dst
}

// Strncpy copies at most n bytes of the string at src into dst, padding
// with NUL if src is shorter than n, and returns dst.
func Strncpy(dst, src uintptr, n int) uintptr {
	s := cStringAt(src, n)
	d := bytesAt(dst, n)
	if d == nil {
		return dst
	}
	copied := copy(d, s)
	for i := copied; i < n; i++ {
		d[i] = 0
	}
	return dst
}
