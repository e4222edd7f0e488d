package flowerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := &ConfigError{
			Option:   "objectMode",
			Value:    "beep",
			Expected: "boolean",
			Message:  "invalid option",
			Cause:    errors.New("underlying"),
		}
		assert.Equal(t,
			`configuration error for objectMode (value: "beep"): expected boolean: invalid option: underlying`,
			err.Error())
	})

	t.Run("Error message with minimal fields", func(t *testing.T) {
		assert.Equal(t, "configuration error", (&ConfigError{}).Error())
	})

	t.Run("Is matches ErrConfig only", func(t *testing.T) {
		err := &ConfigError{Option: "encoding"}
		assert.ErrorIs(t, err, ErrConfig)
		assert.NotErrorIs(t, err, ErrParse)
		assert.NotErrorIs(t, err, ErrChunk)
	})

	t.Run("As extracts ConfigError through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("joiner: invalid options: %w", &ConfigError{Option: "highWaterMark"})
		var cfgErr *ConfigError
		require.ErrorAs(t, wrapped, &cfgErr)
		assert.Equal(t, "highWaterMark", cfgErr.Option)
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("unknown encoding")
		err := &ConfigError{Option: "encoding", Cause: cause}
		assert.ErrorIs(t, err, cause)
		assert.Nil(t, (&ConfigError{}).Unwrap())
	})
}

func TestParseError(t *testing.T) {
	t.Run("Error message with path and cause", func(t *testing.T) {
		err := &ParseError{Path: "join.yaml", Message: "invalid YAML", Cause: errors.New("line 2")}
		assert.Equal(t, "parse error in join.yaml: invalid YAML: line 2", err.Error())
	})

	t.Run("Error message with minimal fields", func(t *testing.T) {
		assert.Equal(t, "parse error", (&ParseError{}).Error())
	})

	t.Run("Is matches ErrParse only", func(t *testing.T) {
		err := &ParseError{}
		assert.ErrorIs(t, err, ErrParse)
		assert.NotErrorIs(t, err, ErrConfig)
	})
}

func TestChunkError(t *testing.T) {
	t.Run("Error message", func(t *testing.T) {
		err := &ChunkError{Index: 3, Encoding: "base64", Message: "cannot decode chunk", Cause: errors.New("illegal data")}
		assert.Equal(t, "chunk error at index 3 (encoding: base64): cannot decode chunk: illegal data", err.Error())
	})

	t.Run("Error message without encoding", func(t *testing.T) {
		assert.Equal(t, "chunk error at index 0", (&ChunkError{}).Error())
	})

	t.Run("Is matches ErrChunk only", func(t *testing.T) {
		err := &ChunkError{}
		assert.ErrorIs(t, err, ErrChunk)
		assert.NotErrorIs(t, err, ErrDestroyed)
	})
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{ErrConfig, ErrParse, ErrChunk, ErrDestroyed, ErrWriteAfterEnd}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.NotErrorIs(t, a, b, "%v should not match %v", a, b)
		}
	}
}
