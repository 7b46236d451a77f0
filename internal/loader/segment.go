package loader

import (
	"fmt"

	"github.com/avdl/avdl/internal/elfview"
	"github.com/avdl/avdl/internal/obs"
	"github.com/avdl/avdl/internal/vm"
)

// androidMaxPageSize returns the largest page size the Android target
// itself assumes: 4 KiB everywhere except AArch64, which Android builds
// for a 64 KiB maximum.
func androidMaxPageSize(arch elfview.Arch) uint64 {
	if arch == elfview.ArchAArch64 {
		return 64 << 10
	}
	return 4 << 10
}

// loadSegments copies each PT_LOAD segment's file bytes into the image and
// applies per-page protection, with large-page compensation when the host
// page size exceeds what the Android target assumes.
func loadSegments(lib *Library, view *elfview.View) error {
	img := lib.region.Bytes()
	hostPageSize := uint64(vm.PageSize())
	compensate := hostPageSize > androidMaxPageSize(view.Arch)

	for _, p := range view.Progs {
		off := p.VirtualAddr - lib.allocStart
		if off > uint64(len(img)) || p.FileSize > uint64(len(img))-off {
			return fmt.Errorf("%w: PT_LOAD vaddr=%#x filesz=%#x out of image bounds", ErrElfParse, p.VirtualAddr, p.FileSize)
		}
		if p.FileSize > 0 {
			copy(img[off:off+p.FileSize], p.Data())
		}
		// Bytes in [off+FileSize, off+MemSize) stay zero: the mapping is
		// zero-filled on creation, supplying the BSS tail.

		start := vm.PageFloor(off)
		end := vm.PageCeil(off + p.MemSize)
		if end <= start {
			continue
		}

		prot := vm.ProtRead | vm.ProtWrite | vm.ProtExec
		if !compensate {
			prot = vm.ProtNone
			if p.Read {
				prot |= vm.ProtRead
			}
			if p.Write {
				prot |= vm.ProtWrite
			}
			if p.Execute {
				prot |= vm.ProtExec
			}
		}

		length := end - start
		if length > uint64(int(^uint(0)>>1)) || start > uint64(len(img)) {
			return fmt.Errorf("%w: segment protection range overflows", ErrProtectionFailed)
		}
		if err := lib.region.Protect(int(start), int(length), prot); err != nil {
			return fmt.Errorf("%w: %v", ErrProtectionFailed, err)
		}
	}

	if compensate {
		obs.Stub("large-page-compensation", fmt.Sprintf("host page size %d exceeds android max; segments set RWX", hostPageSize))
	}
	return nil
}
