package flowerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")

	// ErrParse indicates an options document could not be parsed.
	ErrParse = errors.New("parse error")

	// ErrChunk indicates a chunk could not be processed.
	ErrChunk = errors.New("chunk error")

	// ErrDestroyed is returned for writes issued after a stream was shut down.
	ErrDestroyed = errors.New("stream destroyed")

	// ErrWriteAfterEnd is returned for writes issued after End.
	ErrWriteAfterEnd = errors.New("write after end")
)

// ConfigError represents an option that failed validation.
// Construction never completes when one is returned.
type ConfigError struct {
	// Option is the name of the offending option, e.g. "objectMode"
	Option string
	// Value is the rejected value (may be nil)
	Value any
	// Expected names the expected type or shape, e.g. "boolean"
	Expected string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %#v)", e.Value)
	}
	if e.Expected != "" {
		msg += ": expected " + e.Expected
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// ParseError represents a failure to read or decode an options document.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ChunkError represents a chunk that could not be turned into output.
type ChunkError struct {
	// Index is the zero-based position of the chunk in write order
	Index int
	// Encoding is the source encoding the chunk was written with
	Encoding string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ChunkError) Error() string {
	msg := fmt.Sprintf("chunk error at index %d", e.Index)
	if e.Encoding != "" {
		msg += " (encoding: " + e.Encoding + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ChunkError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ChunkError) Is(target error) bool {
	return target == ErrChunk
}
