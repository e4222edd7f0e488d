// Package commands provides CLI command handlers for flowjoin.
package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/flow-io/flowjoin/internal/cliutil"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// FormatInputPath returns a display-friendly path for an input.
// Returns "<stdin>" if the path is empty or StdinFilePath.
func FormatInputPath(path string) string {
	if path == "" || path == StdinFilePath {
		return "<stdin>"
	}
	return path
}

// FormatOutputPath returns a display-friendly path for an output.
// Returns "<stdout>" if the path is empty or StdinFilePath.
func FormatOutputPath(path string) string {
	if path == "" || path == StdinFilePath {
		return "<stdout>"
	}
	return path
}

// OpenInput opens path for reading. An empty path or StdinFilePath selects
// stdin, which is returned with a no-op Close.
func OpenInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "" || path == StdinFilePath {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path) //nolint:gosec // path is supplied by the CLI user
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	return f, nil
}

// ValidateOutputPath checks if the output path is safe to write to
func ValidateOutputPath(outputPath string, inputPaths []string) error {
	absOutputPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}

	for _, inputPath := range inputPaths {
		if inputPath == "" || inputPath == StdinFilePath {
			continue
		}
		absInputPath, err := filepath.Abs(inputPath)
		if err != nil {
			return fmt.Errorf("invalid input path %s: %w", inputPath, err)
		}
		if absOutputPath == absInputPath {
			return fmt.Errorf("output file %s would overwrite input file %s", outputPath, inputPath)
		}
	}

	if _, err := os.Stat(outputPath); err == nil {
		cliutil.Writef(os.Stderr, "Warning: output file %s already exists and will be overwritten\n", outputPath)
	}

	return nil
}
