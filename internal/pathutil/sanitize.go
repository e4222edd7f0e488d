package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// SanitizeOutputPath cleans an output path and resolves it to an absolute
// one. Paths that already exist as symlinks are rejected; paths that do not
// exist yet are accepted.
func SanitizeOutputPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("pathutil: empty output path")
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("pathutil: cannot resolve absolute path: %w", err)
	}

	info, err := os.Lstat(abs)
	switch {
	case err == nil:
		if info.Mode()&os.ModeSymlink != 0 {
			return "", fmt.Errorf("pathutil: refusing to write to symlink: %s", abs)
		}
	case os.IsNotExist(err):
	default:
		return "", fmt.Errorf("pathutil: cannot stat path: %w", err)
	}

	return abs, nil
}

// CreateOutput sanitizes path and opens it for writing, truncating any
// existing content. New files are created with mode 0600.
func CreateOutput(path string) (*os.File, string, error) {
	clean, err := SanitizeOutputPath(path)
	if err != nil {
		return nil, "", err
	}
	f, err := os.OpenFile(clean, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600) //nolint:gosec // path sanitized above
	if err != nil {
		return nil, "", fmt.Errorf("pathutil: cannot open output: %w", err)
	}
	return f, clean, nil
}
