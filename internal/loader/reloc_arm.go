package loader

import (
	"debug/elf"
	"fmt"
)

// classifyArm implements the Arm row of the relocation dispatch table.
func classifyArm(kind uint32) (action, error) {
	switch elf.R_ARM(kind) {
	case elf.R_ARM_GLOB_DAT, elf.R_ARM_JUMP_SLOT:
		return actionAbsoluteZero, nil
	case elf.R_ARM_ABS32:
		return actionAbsolute, nil
	case elf.R_ARM_RELATIVE:
		return actionRelative, nil
	default:
		return actionUnsupported, fmt.Errorf("unsupported arm relocation type %d", kind)
	}
}
