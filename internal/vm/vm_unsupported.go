//go:build !linux && !darwin && !windows

package vm

import "errors"

// PageSize returns a conservative default on hosts with no real mapping
// backend.
func PageSize() int { return 4096 }

// Map always fails: this platform has no anonymous-mapping backend wired.
func Map(size int) (Region, error) {
	return nil, &ErrAllocationFailed{Cause: errors.New("vm: unsupported host platform")}
}
