// Package filex contains filesystem helpers for temporary staging areas
// used during document assembly.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// StagingDir creates (if needed) and returns a staging directory with the
// given name under the system temp dir.
func StagingDir(name string) (string, error) {
	dir := filepath.Join(os.TempDir(), name)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// RemoveStagingDir deletes a staging directory and its contents. A missing
// directory is not an error.
func RemoveStagingDir(dir string) error {
	return os.RemoveAll(dir)
}
