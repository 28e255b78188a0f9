// Package filex holds small filesystem helpers.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureParentDir creates the directory that will hold the file at path and
// returns it. In-memory SQLite names and URI DSNs are left alone and yield "".
func EnsureParentDir(path string) (string, error) {
	if path == "" || path == ":memory:" || strings.HasPrefix(path, "file:") {
		return "", nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}
