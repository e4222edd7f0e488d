// Package stream is the small duplex stream runtime flowjoin's transforms
// run inside.
//
// A [Duplex] pairs a writable side, which hands each written [Chunk] to a
// [Transformer], with a readable side that buffers whatever the transformer
// pushes. The runtime owns buffering, back-pressure and signalling; the
// transformer only decides what to push for each chunk.
//
// # Execution model
//
// A Duplex is not safe for concurrent use. Writes, reads and listener
// registration are expected to happen on one goroutine, typically the one
// draining the Duplex's [loop.Loop]. Signals that are not the direct result
// of a call (data in flowing mode, drain, end) are delivered as loop tasks,
// never from inside the call that caused them.
//
// # Back-pressure
//
// Write reports whether the readable buffer is still below the configured
// high-water mark, counted in chunks in readable object mode and otherwise in
// the length of the buffered values: bytes for byte slices, and the length of
// the text for strings. A transform that emits base64 or hex strings is
// therefore measured in encoded characters, not decoded bytes. Producers that
// see false should wait for the drain signal, which fires once the buffer
// falls below the mark or empties, whatever the mark.
//
// # Extending the runtime
//
// A [Transformer] that holds output back, for example to batch records or to
// emit a trailer, also implements [Flusher]; End calls Flush before the end
// signal so the held chunks are still delivered. The join transform emits
// one chunk per write and needs no flush.
package stream

import (
	"fmt"

	"github.com/flow-io/flowjoin/loop"
)

// DefaultHighWaterMark is the buffer threshold used when Options leaves it unset.
const DefaultHighWaterMark = 16

// Chunk is one record travelling through a stream.
type Chunk struct {
	// Value is a string, a []byte, or in object mode any value.
	Value any
	// Encoding is the encoding a string Value is written in.
	// Empty means the stream's configured encoding.
	Encoding string
}

// String returns the text form of the chunk's value.
func (c Chunk) String() string {
	return Text(c.Value)
}

// size is the weight of the chunk against a non-object high-water mark: the
// length of a string or byte slice, 1 for anything else.
func (c Chunk) size() int {
	switch v := c.Value.(type) {
	case string:
		return len(v)
	case []byte:
		return len(v)
	default:
		return 1
	}
}

// Text renders v the way the runtime stringifies values: strings and byte
// slices verbatim, fmt.Stringer and error through their methods, anything
// else through fmt.Sprint.
func Text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

// PushFunc queues a chunk on the readable side.
type PushFunc func(Chunk)

// Transformer turns each written chunk into zero or more pushed chunks.
// Returning means the step is complete and the next chunk may be written.
type Transformer interface {
	Transform(c Chunk, push PushFunc) error
}

// TransformerFunc adapts a function to the Transformer interface.
type TransformerFunc func(c Chunk, push PushFunc) error

// Transform implements Transformer.
func (f TransformerFunc) Transform(c Chunk, push PushFunc) error {
	return f(c, push)
}

// Flusher is an optional extension of Transformer for transformers that hold
// back output until the writable side ends. Duplex.End calls Flush once,
// before the end signal.
type Flusher interface {
	Flush(push PushFunc) error
}

// Options configures buffering for a Duplex.
type Options struct {
	// HighWaterMark is the readable buffer threshold at which Write starts
	// returning false, in chunks in readable object mode and otherwise in
	// string or byte-slice length. Zero refuses every write; drain still
	// fires once the buffer empties. Negative values are treated as
	// DefaultHighWaterMark.
	HighWaterMark int
	// ReadableObjectMode counts the readable buffer in chunks instead of bytes.
	ReadableObjectMode bool
	// WritableObjectMode accepts any value on the writable side. When false,
	// only strings and byte slices may be written.
	WritableObjectMode bool
	// DecodeStrings converts string chunks to bytes, using their encoding,
	// before they reach the transformer. Ignored in writable object mode.
	DecodeStrings bool
	// AllowHalfOpen keeps the writable side usable after the readable side
	// has ended. Transforms end both sides together, so it is only recorded.
	AllowHalfOpen bool
	// Encoding is the encoding of the strings the stream produces.
	Encoding string

	// Loop schedules deferred signals. A new Loop is created when nil.
	Loop *loop.Loop
	// Logger receives runtime diagnostics. NopLogger is used when nil.
	Logger Logger
}
