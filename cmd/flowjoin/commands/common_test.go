package commands

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPaths(t *testing.T) {
	assert.Equal(t, "<stdin>", FormatInputPath(""))
	assert.Equal(t, "<stdin>", FormatInputPath(StdinFilePath))
	assert.Equal(t, "in.txt", FormatInputPath("in.txt"))

	assert.Equal(t, "<stdout>", FormatOutputPath(""))
	assert.Equal(t, "<stdout>", FormatOutputPath(StdinFilePath))
	assert.Equal(t, "out.txt", FormatOutputPath("out.txt"))
}

func TestOpenInput(t *testing.T) {
	t.Run("stdin", func(t *testing.T) {
		for _, path := range []string{"", StdinFilePath} {
			rc, err := OpenInput(path, strings.NewReader("piped"))
			require.NoError(t, err)
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, "piped", string(data))
			assert.NoError(t, rc.Close())
		}
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "in.txt")
		require.NoError(t, os.WriteFile(path, []byte("from file"), 0o600))

		rc, err := OpenInput(path, strings.NewReader("ignored"))
		require.NoError(t, err)
		defer func() { _ = rc.Close() }()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "from file", string(data))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := OpenInput(filepath.Join(t.TempDir(), "nope.txt"), nil)
		assert.ErrorContains(t, err, "opening input")
	})
}

func TestValidateOutputPath(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.txt")

	tests := []struct {
		name    string
		output  string
		inputs  []string
		wantErr bool
	}{
		{"distinct paths", filepath.Join(dir, "out.txt"), []string{input}, false},
		{"stdin input", filepath.Join(dir, "out.txt"), []string{StdinFilePath, ""}, false},
		{"overwrites input", input, []string{input}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.output, tt.inputs)
			if tt.wantErr {
				assert.ErrorContains(t, err, "would overwrite input")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
