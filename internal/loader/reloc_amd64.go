package loader

import (
	"debug/elf"
	"fmt"
)

// classifyAMD64 implements the x86_64 row of the relocation dispatch
// table. All three absolute kinds carry an explicit RELA addend, so they
// share the plain actionAbsolute path rather than actionAbsoluteZero.
func classifyAMD64(kind uint32) (action, error) {
	switch elf.R_X86_64(kind) {
	case elf.R_X86_64_JMP_SLOT, elf.R_X86_64_GLOB_DAT, elf.R_X86_64_64:
		return actionAbsolute, nil
	case elf.R_X86_64_RELATIVE:
		return actionRelative, nil
	default:
		return actionUnsupported, fmt.Errorf("unsupported x86_64 relocation type %d", kind)
	}
}
