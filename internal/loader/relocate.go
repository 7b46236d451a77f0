package loader

import (
	"fmt"

	"github.com/avdl/avdl/internal/elfview"
	"github.com/avdl/avdl/internal/hook"
	"github.com/avdl/avdl/internal/obs"
	"github.com/avdl/avdl/internal/resolve"
)

// action classifies how a supported relocation kind's final value is
// computed, per the glossary's absolute/relative distinction.
type action int

const (
	actionUnsupported action = iota
	actionAbsolute
	actionAbsoluteZero // absolute, ignoring any addend (GLOB_DAT/JMP_SLOT-family)
	actionRelative
)

// relocate walks the relocation table and patches the image, using the one
// hook snapshot it is given for the whole phase.
func relocate(lib *Library, view *elfview.View, hooks hook.Set) error {
	img := lib.region.Bytes()
	base := lib.region.Base()
	wordSize := view.WordSize

	for i, r := range view.Relocs {
		off := r.Offset - lib.allocStart
		if off > uint64(len(img)) || uint64(wordSize) > uint64(len(img))-off {
			return fmt.Errorf("%w: relocation[%d] offset %#x out of image bounds", ErrElfParse, i, r.Offset)
		}

		act, err := classify(r.Rtype)
		if err != nil {
			return fmt.Errorf("%w: relocation[%d] %v", ErrUnsupportedRelocation, i, err)
		}

		var addend int64
		if r.Addend != nil {
			addend = *r.Addend
		} else {
			addend = readWord(img, int(off), wordSize)
		}

		symValue := func() uintptr {
			if r.Index == 0 {
				return 0
			}
			return resolve.Resolve(lib.strings[int(r.Index)], hooks)
		}

		var value uint64
		switch act {
		case actionRelative:
			value = uint64(int64(base) + addend)
		case actionAbsolute:
			value = uint64(int64(symValue()) + addend)
		case actionAbsoluteZero:
			value = uint64(symValue())
		}

		writeWord(img, int(off), wordSize, value)
		obs.Reloc(r.Rtype.Arch.String(), r.Rtype.Kind, r.Offset, value)
	}
	return nil
}

func classify(rt elfview.RelocType) (action, error) {
	switch rt.Arch {
	case elfview.ArchX86:
		return classifyX86(rt.Kind)
	case elfview.ArchX86_64:
		return classifyAMD64(rt.Kind)
	case elfview.ArchArm:
		return classifyArm(rt.Kind)
	case elfview.ArchAArch64:
		return classifyAArch64(rt.Kind)
	default:
		return actionUnsupported, fmt.Errorf("unknown architecture %v", rt.Arch)
	}
}

// readWord reads a host-endian machine word of wordSize bytes at offset
// off in img, as a signed value (used when an entry carries its addend
// in place rather than explicitly).
func readWord(img []byte, off, wordSize int) int64 {
	switch wordSize {
	case 4:
		v := uint32(img[off]) | uint32(img[off+1])<<8 | uint32(img[off+2])<<16 | uint32(img[off+3])<<24
		return int64(int32(v))
	case 8:
		v := uint64(img[off]) | uint64(img[off+1])<<8 | uint64(img[off+2])<<16 | uint64(img[off+3])<<24 |
			uint64(img[off+4])<<32 | uint64(img[off+5])<<40 | uint64(img[off+6])<<48 | uint64(img[off+7])<<56
		return int64(v)
	default:
		return 0
	}
}

// writeWord writes value as a host-endian machine word of wordSize bytes
// at offset off in img. All four supported architectures are little-
// endian under the Android ABI, so host-endian resolves to a fixed byte
// order rather than a runtime-detected one.
func writeWord(img []byte, off, wordSize int, value uint64) {
	switch wordSize {
	case 4:
		v := uint32(value)
		img[off] = byte(v)
		img[off+1] = byte(v >> 8)
		img[off+2] = byte(v >> 16)
		img[off+3] = byte(v >> 24)
	case 8:
		img[off] = byte(value)
		img[off+1] = byte(value >> 8)
		img[off+2] = byte(value >> 16)
		img[off+3] = byte(value >> 24)
		img[off+4] = byte(value >> 32)
		img[off+5] = byte(value >> 40)
		img[off+6] = byte(value >> 48)
		img[off+7] = byte(value >> 56)
	}
}
