package mcpserver

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil error returns empty string",
			err:  nil,
			want: "",
		},
		{
			name: "strips absolute path",
			err:  fmt.Errorf("failed to open /home/user/secret/joined.txt: no such file"),
			want: "failed to open <path>: no such file",
		},
		{
			name: "preserves non-path content",
			err:  fmt.Errorf("chunk[1]: chunk error at index 1"),
			want: "chunk[1]: chunk error at index 1",
		},
		{
			name: "strips multiple paths",
			err:  fmt.Errorf("copy /tmp/a.txt to /tmp/b.txt failed"),
			want: "copy <path> to <path> failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeError(tt.err))
		})
	}
}

func TestErrResult(t *testing.T) {
	result := errResult(fmt.Errorf("bad /var/lib/x"))
	assert.True(t, result.IsError)
	assert.Len(t, result.Content, 1)
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0 chunks", formatCount(0, "chunk"))
	assert.Equal(t, "1 chunk", formatCount(1, "chunk"))
	assert.Equal(t, "12 bytes", formatCount(12, "byte"))
}
