package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleVersion(t *testing.T) {
	var buf bytes.Buffer
	HandleVersion(&buf)

	assert.Contains(t, buf.String(), "flowjoin v")
	assert.Contains(t, buf.String(), "Commit: ")
	assert.Contains(t, buf.String(), "Go Version: ")
}

func TestHandleMCP_RejectsArguments(t *testing.T) {
	assert.ErrorContains(t, HandleMCP([]string{"extra"}), "takes no arguments")
	assert.NoError(t, HandleMCP([]string{"-h"}))
}
