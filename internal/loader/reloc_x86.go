package loader

import (
	"debug/elf"
	"fmt"
)

// classifyX86 implements the x86 row of the relocation dispatch table.
func classifyX86(kind uint32) (action, error) {
	switch elf.R_386(kind) {
	case elf.R_386_GLOB_DAT, elf.R_386_JMP_SLOT:
		return actionAbsoluteZero, nil
	case elf.R_386_32:
		return actionAbsolute, nil
	case elf.R_386_RELATIVE:
		return actionRelative, nil
	default:
		return actionUnsupported, fmt.Errorf("unsupported x86 relocation type %d", kind)
	}
}
