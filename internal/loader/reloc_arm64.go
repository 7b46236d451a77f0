package loader

import (
	"debug/elf"
	"fmt"
)

// classifyAArch64 implements the AArch64 row of the relocation dispatch
// table. Like x86_64, every absolute kind here carries an explicit RELA
// addend.
func classifyAArch64(kind uint32) (action, error) {
	switch elf.R_AARCH64(kind) {
	case elf.R_AARCH64_JUMP_SLOT, elf.R_AARCH64_GLOB_DAT, elf.R_AARCH64_ABS64:
		return actionAbsolute, nil
	case elf.R_AARCH64_RELATIVE:
		return actionRelative, nil
	default:
		return actionUnsupported, fmt.Errorf("unsupported aarch64 relocation type %d", kind)
	}
}
