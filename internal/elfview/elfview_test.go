package elfview

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"testing"
)

// The structs below mirror the on-disk ELF64 little-endian layouts exactly
// (field order and widths), so binary.Write serializes them the same way a
// real toolchain's object writer would.

type elf64Header struct {
	Ident     [16]byte
	Type      uint16
	Machine   uint16
	Version   uint32
	Entry     uint64
	Phoff     uint64
	Shoff     uint64
	Flags     uint32
	Ehsize    uint16
	Phentsize uint16
	Phnum     uint16
	Shentsize uint16
	Shnum     uint16
	Shstrndx  uint16
}

type elf64ProgHeader struct {
	Type   uint32
	Flags  uint32
	Offset uint64
	Vaddr  uint64
	Paddr  uint64
	Filesz uint64
	Memsz  uint64
	Align  uint64
}

type elf64SectionHeader struct {
	Name      uint32
	Type      uint32
	Flags     uint64
	Addr      uint64
	Offset    uint64
	Size      uint64
	Link      uint32
	Info      uint32
	Addralign uint64
	Entsize   uint64
}

type elf64Sym struct {
	Name  uint32
	Info  uint8
	Other uint8
	Shndx uint16
	Value uint64
	Size  uint64
}

type elf64Rela struct {
	Offset uint64
	Info   uint64
	Addend int64
}

const (
	testSegVaddr    = 0x1000
	testSegSize     = 0x40
	testSymName     = "payload_init"
	testRelocVaddr  = testSegVaddr + 8
	testRelocAddend = 0x2000
)

// buildSharedObject assembles a minimal, valid ELF64 LE shared object for
// machine: one PT_LOAD segment, one exported dynamic symbol at
// testSegVaddr, and one R_X86_64_RELATIVE relocation in .rela.dyn.
// Non-x86_64 callers only need it to exercise the unsupported-machine
// path, so the symbol/relocation content is irrelevant to them.
func buildSharedObject(t *testing.T, machine elf.Machine) []byte {
	t.Helper()

	segment := make([]byte, testSegSize)

	dynstr := append([]byte{0}, append([]byte(testSymName), 0)...)

	var dynsymBuf bytes.Buffer
	mustWrite(t, &dynsymBuf, elf64Sym{}) // index 0: reserved null symbol
	mustWrite(t, &dynsymBuf, elf64Sym{
		Name:  1,
		Info:  (1 << 4) | 2, // STB_GLOBAL, STT_FUNC
		Shndx: 1,
		Value: testSegVaddr,
	})
	dynsym := dynsymBuf.Bytes()

	var relaBuf bytes.Buffer
	mustWrite(t, &relaBuf, elf64Rela{
		Offset: testRelocVaddr,
		Info:   uint64(elf.R_X86_64_RELATIVE),
		Addend: testRelocAddend,
	})
	rela := relaBuf.Bytes()

	shstrtab := []byte("\x00.dynsym\x00.dynstr\x00.rela.dyn\x00.shstrtab\x00")
	nameOffset := func(name string) uint32 {
		idx := bytes.Index(shstrtab, []byte(name+"\x00"))
		if idx < 0 {
			t.Fatalf("name %q not found in synthetic shstrtab", name)
		}
		return uint32(idx)
	}

	const (
		ehdrSize = 64
		phdrSize = 56
	)
	segOffset := uint64(ehdrSize + phdrSize)
	dynsymOffset := segOffset + uint64(len(segment))
	dynstrOffset := dynsymOffset + uint64(len(dynsym))
	relaOffset := dynstrOffset + uint64(len(dynstr))
	shstrtabOffset := relaOffset + uint64(len(rela))
	shoff := shstrtabOffset + uint64(len(shstrtab))

	var buf bytes.Buffer

	ident := [16]byte{0x7f, 'E', 'L', 'F', 2, 1, 1, 0}
	mustWrite(t, &buf, elf64Header{
		Ident:     ident,
		Type:      uint16(elf.ET_DYN),
		Machine:   uint16(machine),
		Version:   1,
		Phoff:     ehdrSize,
		Shoff:     shoff,
		Ehsize:    ehdrSize,
		Phentsize: phdrSize,
		Phnum:     1,
		Shentsize: 64,
		Shnum:     5,
		Shstrndx:  4,
	})

	mustWrite(t, &buf, elf64ProgHeader{
		Type:   uint32(elf.PT_LOAD),
		Flags:  uint32(elf.PF_R | elf.PF_X),
		Offset: segOffset,
		Vaddr:  testSegVaddr,
		Paddr:  testSegVaddr,
		Filesz: uint64(len(segment)),
		Memsz:  uint64(len(segment)),
		Align:  0x1000,
	})

	buf.Write(segment)
	buf.Write(dynsym)
	buf.Write(dynstr)
	buf.Write(rela)
	buf.Write(shstrtab)

	sections := []elf64SectionHeader{
		{},
		{
			Name:      nameOffset(".dynsym"),
			Type:      uint32(elf.SHT_DYNSYM),
			Offset:    dynsymOffset,
			Size:      uint64(len(dynsym)),
			Link:      2,
			Info:      1,
			Addralign: 8,
			Entsize:   24,
		},
		{
			Name:      nameOffset(".dynstr"),
			Type:      uint32(elf.SHT_STRTAB),
			Offset:    dynstrOffset,
			Size:      uint64(len(dynstr)),
			Addralign: 1,
		},
		{
			Name:      nameOffset(".rela.dyn"),
			Type:      uint32(elf.SHT_RELA),
			Offset:    relaOffset,
			Size:      uint64(len(rela)),
			Link:      1,
			Addralign: 8,
			Entsize:   24,
		},
		{
			Name:      nameOffset(".shstrtab"),
			Type:      uint32(elf.SHT_STRTAB),
			Offset:    shstrtabOffset,
			Size:      uint64(len(shstrtab)),
			Addralign: 1,
		},
	}
	for _, sh := range sections {
		mustWrite(t, &buf, sh)
	}

	return buf.Bytes()
}

func mustWrite(t *testing.T, buf *bytes.Buffer, v any) {
	t.Helper()
	if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
		t.Fatalf("binary.Write: %v", err)
	}
}

func TestParse_BasicSharedObject(t *testing.T) {
	raw := buildSharedObject(t, elf.EM_X86_64)

	view, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if view.Arch != ArchX86_64 {
		t.Fatalf("Arch = %v, want %v", view.Arch, ArchX86_64)
	}
	if view.WordSize != 8 {
		t.Fatalf("WordSize = %d, want 8", view.WordSize)
	}
	if len(view.Progs) != 1 {
		t.Fatalf("len(Progs) = %d, want 1", len(view.Progs))
	}

	p := view.Progs[0]
	if p.VirtualAddr != testSegVaddr || p.FileSize != testSegSize || p.MemSize != testSegSize {
		t.Fatalf("unexpected ProgHeader: %+v", p)
	}
	if !p.Read || !p.Execute || p.Write {
		t.Fatalf("unexpected ProgHeader flags: read=%v write=%v exec=%v", p.Read, p.Write, p.Execute)
	}
	if len(p.Data()) != testSegSize {
		t.Fatalf("len(Data()) = %d, want %d", len(p.Data()), testSegSize)
	}

	if len(view.DynSyms) != 1 {
		t.Fatalf("len(DynSyms) = %d, want 1", len(view.DynSyms))
	}
	sym := view.DynSyms[0]
	if sym.Index != 1 || sym.Name != testSymName || sym.Value != testSegVaddr {
		t.Fatalf("unexpected DynSym: %+v", sym)
	}

	if len(view.Relocs) != 1 {
		t.Fatalf("len(Relocs) = %d, want 1", len(view.Relocs))
	}
	reloc := view.Relocs[0]
	if reloc.Offset != testRelocVaddr {
		t.Fatalf("Relocs[0].Offset = %#x, want %#x", reloc.Offset, uint64(testRelocVaddr))
	}
	if reloc.Index != 0 {
		t.Fatalf("Relocs[0].Index = %d, want 0", reloc.Index)
	}
	if reloc.Rtype.Arch != ArchX86_64 || reloc.Rtype.Kind != uint32(elf.R_X86_64_RELATIVE) {
		t.Fatalf("unexpected Rtype: %+v", reloc.Rtype)
	}
	if reloc.Addend == nil || *reloc.Addend != testRelocAddend {
		t.Fatalf("unexpected Addend: %v", reloc.Addend)
	}
}

func TestParse_UnsupportedMachine(t *testing.T) {
	raw := buildSharedObject(t, elf.EM_MIPS)

	if _, err := Parse(raw); err == nil {
		t.Fatal("Parse: expected error for unsupported machine, got nil")
	}
}

func TestParse_TooSmall(t *testing.T) {
	if _, err := Parse([]byte("not an elf file")); err == nil {
		t.Fatal("Parse: expected error for truncated input, got nil")
	}
}

func TestArch_String(t *testing.T) {
	cases := map[Arch]string{
		ArchX86:     "x86",
		ArchX86_64:  "x86_64",
		ArchArm:     "arm",
		ArchAArch64: "aarch64",
	}
	for arch, want := range cases {
		if got := arch.String(); got != want {
			t.Errorf("Arch(%d).String() = %q, want %q", arch, got, want)
		}
	}
}
