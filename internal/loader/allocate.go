package loader

import (
	"fmt"

	"github.com/avdl/avdl/internal/elfview"
	"github.com/avdl/avdl/internal/vm"
)

// allocate computes the span, creates the anonymous mapping, and ingests
// dynamic symbols. Every quantity the data model calls "an offset into
// image" (a symbol's value, a relocation's offset, a program header's
// virtual address) is taken relative to allocStart — the
// load bias, recorded here on the Library; symbol values are rebased here,
// the rest in segment.go and relocate.go — so that a nonzero lowest
// virtual address (legal per the spec, even though Android .so files
// almost always start at 0) still indexes correctly into the allocated
// buffer.
func allocate(view *elfview.View) (*Library, error) {
	allocStart, allocEnd := span(view)
	size := allocEnd - allocStart
	if size == 0 {
		return nil, fmt.Errorf("%w: empty loadable span", ErrElfParse)
	}
	if size > uint64(int(^uint(0)>>1)) {
		return nil, fmt.Errorf("%w: mapping size overflows int", ErrAllocationFailed)
	}

	region, err := vm.Map(int(size))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAllocationFailed, err)
	}

	symbols := make(map[string]symbolEntry, len(view.DynSyms))
	strs := make(map[int]string, len(view.DynSyms))
	for _, s := range view.DynSyms {
		// "When duplicate names occur, the last entry wins" — preserved
		// for bug-compatibility with the reference loader; Android
		// toolchains do not emit duplicates in practice.
		symbols[s.Name] = symbolEntry{Name: s.Name, Value: s.Value - allocStart}
		strs[s.Index] = s.Name
	}

	return &Library{
		region:     region,
		symbols:    symbols,
		strings:    strs,
		allocStart: allocStart,
	}, nil
}

// span computes alloc_start = page_floor(min_vaddr) and
// alloc_end = page_ceil(max(vaddr + max(file_size, mem_size))) across all
// PT_LOAD headers.
func span(view *elfview.View) (allocStart, allocEnd uint64) {
	minVAddr := ^uint64(0)
	var maxEnd uint64
	for _, p := range view.Progs {
		if p.VirtualAddr < minVAddr {
			minVAddr = p.VirtualAddr
		}
		sz := p.FileSize
		if p.MemSize > sz {
			sz = p.MemSize
		}
		if end := p.VirtualAddr + sz; end > maxEnd {
			maxEnd = end
		}
	}
	return vm.PageFloor(minVAddr), vm.PageCeil(maxEnd)
}
