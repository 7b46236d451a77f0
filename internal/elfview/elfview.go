// Package elfview adapts the standard library's debug/elf decoder into the
// abstract, already-parsed view the loader core consumes: loadable program
// headers, dynamic symbols, and relocation entries. It plays the role of the
// "ELF decoder" external collaborator — the core never touches debug/elf
// directly.
package elfview

import (
	"bytes"
	"debug/elf"
	"fmt"
)

// Arch tags the instruction-set architecture a RelocType belongs to.
type Arch int

const (
	ArchX86 Arch = iota
	ArchX86_64
	ArchArm
	ArchAArch64
)

func (a Arch) String() string {
	switch a {
	case ArchX86:
		return "x86"
	case ArchX86_64:
		return "x86_64"
	case ArchArm:
		return "arm"
	case ArchAArch64:
		return "aarch64"
	default:
		return "unknown"
	}
}

// RelocType is a tagged variant over {x86, x86_64, Arm, AArch64} x
// architecture-specific kind, per the data model's RelocationEntry.rtype.
type RelocType struct {
	Arch Arch
	Kind uint32
}

// ProgHeader is a loadable program header (PT_LOAD).
type ProgHeader struct {
	VirtualAddr uint64
	FileSize    uint64
	MemSize     uint64
	Read        bool
	Write       bool
	Execute     bool
	data        []byte
}

// Data returns the segment's on-disk bytes (length FileSize).
func (p ProgHeader) Data() []byte { return p.data }

// DynSym is a (name, st_value) pair from .dynsym, carrying its zero-based
// index in the table.
type DynSym struct {
	Index int
	Name  string
	Value uint64
}

// RelocationEntry is the abstract view of one relocation: the offset to
// patch, the symbol-table index it names (0 if unused), its tagged type,
// and an optional explicit addend (nil for REL-form entries, which carry
// their addend in place at Offset instead).
type RelocationEntry struct {
	Offset uint64
	Index  uint32
	Rtype  RelocType
	Addend *int64
}

// View is the fully decoded, read-only picture of one ELF shared object.
type View struct {
	Machine  elf.Machine
	Class    elf.Class
	Progs    []ProgHeader
	DynSyms  []DynSym
	Relocs   []RelocationEntry
	Arch     Arch
	WordSize int // 4 or 8, matching Class
}

// Parse decodes raw into a View. It is the sole point where debug/elf is
// consulted; everything downstream works off the returned value.
func Parse(raw []byte) (*View, error) {
	f, err := elf.NewFile(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("elfview: parse: %w", err)
	}
	defer f.Close()

	arch, err := archFor(f.Machine)
	if err != nil {
		return nil, fmt.Errorf("elfview: %w", err)
	}
	if f.Class != elf.ELFCLASS32 && f.Class != elf.ELFCLASS64 {
		return nil, fmt.Errorf("elfview: unsupported ELF class %s", f.Class)
	}
	if f.Data != elf.ELFDATA2LSB {
		return nil, fmt.Errorf("elfview: unsupported ELF byte order %s", f.Data)
	}

	wordSize := 8
	if f.Class == elf.ELFCLASS32 {
		wordSize = 4
	}

	v := &View{
		Machine:  f.Machine,
		Class:    f.Class,
		Arch:     arch,
		WordSize: wordSize,
	}

	if err := v.loadProgs(f, raw); err != nil {
		return nil, err
	}
	if err := v.loadDynSyms(f); err != nil {
		return nil, err
	}
	if err := v.loadRelocs(f); err != nil {
		return nil, err
	}
	return v, nil
}

func archFor(m elf.Machine) (Arch, error) {
	switch m {
	case elf.EM_386:
		return ArchX86, nil
	case elf.EM_X86_64:
		return ArchX86_64, nil
	case elf.EM_ARM:
		return ArchArm, nil
	case elf.EM_AARCH64:
		return ArchAArch64, nil
	default:
		return 0, fmt.Errorf("unsupported machine %s", m)
	}
}

func (v *View) loadProgs(f *elf.File, raw []byte) error {
	for _, p := range f.Progs {
		if p.Type != elf.PT_LOAD {
			continue
		}
		if p.Off > uint64(len(raw)) || p.Filesz > uint64(len(raw))-p.Off {
			return fmt.Errorf("elfview: PT_LOAD file range out of bounds off=%#x filesz=%#x", p.Off, p.Filesz)
		}
		v.Progs = append(v.Progs, ProgHeader{
			VirtualAddr: p.Vaddr,
			FileSize:    p.Filesz,
			MemSize:     p.Memsz,
			Read:        p.Flags&elf.PF_R != 0,
			Write:       p.Flags&elf.PF_W != 0,
			Execute:     p.Flags&elf.PF_X != 0,
			data:        raw[p.Off : p.Off+p.Filesz],
		})
	}
	if len(v.Progs) == 0 {
		return fmt.Errorf("elfview: no PT_LOAD segments")
	}
	return nil
}

func (v *View) loadDynSyms(f *elf.File) error {
	syms, err := f.DynamicSymbols()
	if err != nil {
		// A library with no dynamic symbol table at all is unusual but not
		// an error in itself; it simply exports nothing.
		return nil
	}
	// debug/elf.DynamicSymbols omits the null symbol at index 0, so the
	// first real entry is dynsym index 1. We keep the dense, zero-based
	// indexing scheme the data model specifies by recording the dynsym
	// index (i+1) alongside each name, which is also what relocation
	// symbol-index fields refer to.
	for i, s := range syms {
		if s.Name == "" {
			continue
		}
		v.DynSyms = append(v.DynSyms, DynSym{
			Index: i + 1,
			Name:  s.Name,
			Value: s.Value,
		})
	}
	return nil
}

func (v *View) loadRelocs(f *elf.File) error {
	for _, name := range []string{".rela.dyn", ".rela.plt", ".rela.plt.sec", ".rel.dyn", ".rel.plt", ".rel.plt.sec"} {
		sec := f.Section(name)
		if sec == nil {
			continue
		}
		data, err := sec.Data()
		if err != nil {
			return fmt.Errorf("elfview: read relocation section %s: %w", name, err)
		}
		if len(data) == 0 {
			continue
		}
		switch sec.Type {
		case elf.SHT_RELA:
			if err := v.appendRela(data); err != nil {
				return fmt.Errorf("elfview: %s: %w", name, err)
			}
		case elf.SHT_REL:
			if err := v.appendRel(data); err != nil {
				return fmt.Errorf("elfview: %s: %w", name, err)
			}
		default:
			return fmt.Errorf("elfview: section %s has unexpected type %s", name, sec.Type)
		}
	}
	return nil
}

func (v *View) appendRela(data []byte) error {
	switch v.Class {
	case elf.ELFCLASS64:
		const ent = 24
		if len(data)%ent != 0 {
			return fmt.Errorf("malformed RELA section: size %d not a multiple of %d", len(data), ent)
		}
		for i := 0; i < len(data); i += ent {
			off := le64(data[i:])
			info := le64(data[i+8:])
			addend := int64(le64(data[i+16:]))
			v.Relocs = append(v.Relocs, RelocationEntry{
				Offset: off,
				Index:  uint32(elf.R_SYM64(info)),
				Rtype:  RelocType{Arch: v.Arch, Kind: uint32(elf.R_TYPE64(info))},
				Addend: &addend,
			})
		}
	case elf.ELFCLASS32:
		const ent = 12
		if len(data)%ent != 0 {
			return fmt.Errorf("malformed RELA section: size %d not a multiple of %d", len(data), ent)
		}
		for i := 0; i < len(data); i += ent {
			off := uint64(le32(data[i:]))
			info := le32(data[i+4:])
			addend := int64(int32(le32(data[i+8:])))
			v.Relocs = append(v.Relocs, RelocationEntry{
				Offset: off,
				Index:  elf.R_SYM32(info),
				Rtype:  RelocType{Arch: v.Arch, Kind: elf.R_TYPE32(info)},
				Addend: &addend,
			})
		}
	}
	return nil
}

func (v *View) appendRel(data []byte) error {
	switch v.Class {
	case elf.ELFCLASS64:
		const ent = 16
		if len(data)%ent != 0 {
			return fmt.Errorf("malformed REL section: size %d not a multiple of %d", len(data), ent)
		}
		for i := 0; i < len(data); i += ent {
			off := le64(data[i:])
			info := le64(data[i+8:])
			v.Relocs = append(v.Relocs, RelocationEntry{
				Offset: off,
				Index:  uint32(elf.R_SYM64(info)),
				Rtype:  RelocType{Arch: v.Arch, Kind: uint32(elf.R_TYPE64(info))},
				Addend: nil,
			})
		}
	case elf.ELFCLASS32:
		const ent = 8
		if len(data)%ent != 0 {
			return fmt.Errorf("malformed REL section: size %d not a multiple of %d", len(data), ent)
		}
		for i := 0; i < len(data); i += ent {
			off := uint64(le32(data[i:]))
			info := le32(data[i+4:])
			v.Relocs = append(v.Relocs, RelocationEntry{
				Offset: off,
				Index:  elf.R_SYM32(info),
				Rtype:  RelocType{Arch: v.Arch, Kind: elf.R_TYPE32(info)},
				Addend: nil,
			})
		}
	}
	return nil
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func le64(b []byte) uint64 {
	return uint64(le32(b)) | uint64(le32(b[4:]))<<32
}
