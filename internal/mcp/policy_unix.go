//go:build !windows

package mcp

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// openPolicyFile opens path read-only, refusing to follow a symlink.
func openPolicyFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDONLY|syscall.O_NOFOLLOW, 0)
	switch {
	case err == nil:
		return f, nil
	case errors.Is(err, os.ErrNotExist):
		return nil, ErrPolicyNotFound
	case errors.Is(err, syscall.ELOOP):
		return nil, ErrPolicySymlink
	default:
		return nil, err
	}
}

// checkFileOwnership rejects a policy owned by another user.
func checkFileOwnership(info os.FileInfo) error {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok && stat.Uid != uint32(os.Getuid()) {
		return ErrPolicyNotOwnedByUser
	}
	return nil
}

// checkFilePermissions rejects a policy writable by group or others.
func checkFilePermissions(info os.FileInfo) error {
	if perm := info.Mode().Perm(); perm&0o022 != 0 {
		return fmt.Errorf("%w: %o (must not be group or world writable)", ErrPolicyInsecure, perm)
	}
	return nil
}
