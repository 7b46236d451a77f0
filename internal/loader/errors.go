package loader

import "errors"

// Error taxonomy from the specification's error-handling design (§7).
// Every load aborts on the first error; no partial Library escapes.
var (
	ErrFileRead              = errors.New("loader: file could not be read")
	ErrElfParse              = errors.New("loader: ELF view is structurally malformed")
	ErrAllocationFailed      = errors.New("loader: host rejected the anonymous mapping")
	ErrProtectionFailed      = errors.New("loader: host rejected a protection change")
	ErrUnsupportedRelocation = errors.New("loader: relocation kind outside the dispatch table")
	ErrLibraryClosed         = errors.New("loader: library is closed")
)
