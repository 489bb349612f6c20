//go:build windows

package mcp

import (
	"errors"
	"os"
)

// openPolicyFile opens path read-only. Windows has no O_NOFOLLOW; creating
// symlinks there requires elevated privileges.
func openPolicyFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrPolicyNotFound
		}
		return nil, err
	}
	return f, nil
}

// checkFileOwnership is a no-op; ownership on Windows is expressed via ACLs.
func checkFileOwnership(_ os.FileInfo) error {
	return nil
}

// checkFilePermissions is a no-op; Windows reports synthetic permission bits.
func checkFilePermissions(_ os.FileInfo) error {
	return nil
}
