// Package filex holds small filesystem helpers.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureParentDir creates the directory that will hold the file at path.
// SQLite URIs ("file:...") and in-memory databases are left alone.
func EnsureParentDir(path string) error {
	if path == "" || path == ":memory:" || strings.HasPrefix(path, "file:") {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}
