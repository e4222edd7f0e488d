package cliutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnescape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{",", ","},
		{`\t`, "\t"},
		{`\n`, "\n"},
		{`\r\n`, "\r\n"},
		{`\0`, "\x00"},
		{`a\\b`, `a\b`},
		{`\x7c`, "|"},
		{`--\x2D`, "---"},
		{`\q`, `\q`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Unescape(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnescapeErrors(t *testing.T) {
	for _, in := range []string{`\`, `ab\`, `\x7`, `\xzz`} {
		_, err := Unescape(in)
		assert.Error(t, err, "input %q", in)
	}
}
