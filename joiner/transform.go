package joiner

import (
	"errors"
	"fmt"

	"github.com/flow-io/flowjoin/codec"
	"github.com/flow-io/flowjoin/flowerrors"
	"github.com/flow-io/flowjoin/loop"
	"github.com/flow-io/flowjoin/stream"
	"github.com/google/uuid"
)

// Transform is a join stream stage. It emits exactly one output chunk per
// written chunk, prepending the separator to every chunk but the first.
//
// A Transform is not safe for concurrent use; see the stream package for
// the execution model.
type Transform struct {
	id     string
	cfg    *Config
	duplex *stream.Duplex
	loop   *loop.Loop
	log    stream.Logger

	// encodings caches source encodings looked up by chunk
	encodings map[string]codec.Encoding

	hasEmitted bool
	destroyed  bool
	index      int
}

// New creates a join transform. Options are resolved over DefaultSettings
// and construction fails, returning no Transform, if any of them is invalid.
func New(opts ...Option) (*Transform, error) {
	jc, err := applyOptions(DefaultSettings(), opts...)
	if err != nil {
		return nil, fmt.Errorf("joiner: invalid options: %w", err)
	}
	cfg, err := jc.settings.resolve()
	if err != nil {
		return nil, fmt.Errorf("joiner: invalid options: %w", err)
	}

	l := jc.loop
	if l == nil {
		l = loop.New()
	}
	var log stream.Logger = stream.NopLogger{}
	if jc.logger != nil {
		log = jc.logger
	}

	t := &Transform{
		id:        uuid.NewString(),
		cfg:       cfg,
		loop:      l,
		encodings: make(map[string]codec.Encoding),
	}
	t.log = log.With("stream", t.id)

	so := cfg.StreamOptions()
	so.Loop = l
	so.Logger = t.log
	t.duplex = stream.NewDuplex(stream.TransformerFunc(t.processChunk), so)

	t.log.Debug("join transform created",
		"encoding", cfg.Encoding().Name(),
		"objectMode", cfg.ObjectMode(),
		"highWaterMark", cfg.HighWaterMark())
	return t, nil
}

// ID returns the identifier the transform logs under.
func (t *Transform) ID() string { return t.id }

// Config returns the resolved configuration.
func (t *Transform) Config() *Config { return t.cfg }

// Loop returns the loop the transform schedules its signals on.
func (t *Transform) Loop() *loop.Loop { return t.loop }

// HasEmitted reports whether the first chunk has been processed.
func (t *Transform) HasEmitted() bool { return t.hasEmitted }

// Destroyed reports whether Shutdown has been called.
func (t *Transform) Destroyed() bool { return t.destroyed }

// Buffered returns the number of output chunks waiting to be read.
func (t *Transform) Buffered() int { return t.duplex.Buffered() }

// Write hands c to the transform and reports whether the caller may keep
// writing without exceeding the high-water mark. After Shutdown it fails
// with flowerrors.ErrDestroyed. Malformed text is decoded leniently; a chunk
// that cannot be joined at all (a structured value in byte mode, or an
// unknown source encoding) fails with a *flowerrors.ChunkError and shuts the
// transform down with that error.
func (t *Transform) Write(c stream.Chunk) (bool, error) {
	if t.destroyed {
		return false, flowerrors.ErrDestroyed
	}
	ok, err := t.duplex.Write(c)
	if err != nil {
		if errors.Is(err, flowerrors.ErrChunk) {
			t.Shutdown(err)
		}
		return false, err
	}
	return ok, nil
}

// WriteString writes s, expressed in encoding enc. An empty enc means the
// configured encoding.
func (t *Transform) WriteString(s, enc string) (bool, error) {
	return t.Write(stream.Chunk{Value: s, Encoding: enc})
}

// End closes the writable side. The end signal fires once every output
// chunk has been consumed.
func (t *Transform) End() error {
	if t.destroyed {
		return flowerrors.ErrDestroyed
	}
	t.log.Debug("join transform ending", "chunks", t.index)
	return t.duplex.End()
}

// Read pops the oldest output chunk. It reports false when nothing is
// buffered or the transform has been shut down.
func (t *Transform) Read() (stream.Chunk, bool) {
	if t.destroyed {
		return stream.Chunk{}, false
	}
	return t.duplex.Read()
}

// OnData registers a data listener and switches the transform to flowing mode.
func (t *Transform) OnData(fn func(stream.Chunk)) { t.duplex.OnData(fn) }

// OnEnd registers a listener for the end of the output.
func (t *Transform) OnEnd(fn func()) { t.duplex.OnEnd(fn) }

// OnDrain registers a listener called when writing may resume.
func (t *Transform) OnDrain(fn func()) { t.duplex.OnDrain(fn) }

// OnError registers a listener for the error passed to Shutdown.
func (t *Transform) OnError(fn func(error)) { t.duplex.OnError(fn) }

// OnClose registers a listener for the close signal.
func (t *Transform) OnClose(fn func()) { t.duplex.OnClose(fn) }

// Shutdown destroys the transform. The first call marks it destroyed at once
// and enqueues, on the loop, the error signal (when err is non-nil) followed
// by the close signal. Buffered output is dropped and no data, drain or end
// signal is delivered after the call, even in flowing mode. Later calls do
// nothing.
func (t *Transform) Shutdown(err error) {
	if t.destroyed {
		return
	}
	t.destroyed = true
	t.duplex.Halt()
	if err != nil {
		t.log.Debug("join transform shutting down", "chunks", t.index, "error", err)
	} else {
		t.log.Debug("join transform shutting down", "chunks", t.index)
	}
	t.loop.Enqueue(func() {
		t.duplex.Teardown(err)
	})
}

// processChunk is the Transformer the duplex runs for every write.
func (t *Transform) processChunk(c stream.Chunk, push stream.PushFunc) error {
	if t.destroyed {
		return flowerrors.ErrDestroyed
	}

	var (
		out stream.Chunk
		err error
	)
	if t.cfg.TextMode() {
		out = t.joinText(c)
	} else {
		out, err = t.joinBytes(c)
		if err != nil {
			return err
		}
	}

	if !t.hasEmitted {
		t.hasEmitted = true
		t.log.Debug("first chunk joined")
	}
	t.index++
	push(out)
	return nil
}

func (t *Transform) joinText(c stream.Chunk) stream.Chunk {
	if !t.hasEmitted {
		if t.cfg.ObjectMode() {
			return stream.Chunk{Value: c.Value}
		}
		return stream.Chunk{Value: stream.Text(c.Value)}
	}
	return stream.Chunk{Value: t.cfg.separator + stream.Text(c.Value)}
}

func (t *Transform) joinBytes(c stream.Chunk) (stream.Chunk, error) {
	enc := t.cfg.encoding

	src, err := t.sourceEncoding(c)
	if err != nil {
		return stream.Chunk{}, err
	}

	// A first string chunk already in the output encoding goes out untouched.
	if s, ok := c.Value.(string); ok && !t.hasEmitted && src.Name() == enc.Name() {
		return stream.Chunk{Value: s, Encoding: enc.Name()}, nil
	}

	raw, err := t.chunkBytes(c, src)
	if err != nil {
		return stream.Chunk{}, err
	}
	if t.hasEmitted {
		joined := make([]byte, 0, len(t.cfg.separatorBytes)+len(raw))
		joined = append(joined, t.cfg.separatorBytes...)
		raw = append(joined, raw...)
	}

	s, err := enc.String(raw)
	if err != nil {
		return stream.Chunk{}, &flowerrors.ChunkError{
			Index:    t.index,
			Encoding: enc.Name(),
			Message:  "cannot encode output",
			Cause:    err,
		}
	}
	return stream.Chunk{Value: s, Encoding: enc.Name()}, nil
}

// sourceEncoding resolves the encoding a chunk was written in.
func (t *Transform) sourceEncoding(c stream.Chunk) (codec.Encoding, error) {
	if c.Encoding == "" {
		return t.cfg.encoding, nil
	}
	if enc, ok := t.encodings[c.Encoding]; ok {
		return enc, nil
	}
	enc, err := codec.Lookup(c.Encoding)
	if err != nil {
		return nil, &flowerrors.ChunkError{Index: t.index, Encoding: c.Encoding, Cause: err}
	}
	t.encodings[c.Encoding] = enc
	return enc, nil
}

// chunkBytes returns the raw bytes a chunk stands for.
func (t *Transform) chunkBytes(c stream.Chunk, src codec.Encoding) ([]byte, error) {
	switch v := c.Value.(type) {
	case []byte:
		return v, nil
	case string:
		raw, err := src.Bytes(v)
		if err != nil {
			return nil, &flowerrors.ChunkError{
				Index:    t.index,
				Encoding: src.Name(),
				Message:  "cannot decode chunk",
				Cause:    err,
			}
		}
		return raw, nil
	default:
		return nil, &flowerrors.ChunkError{
			Index:    t.index,
			Encoding: src.Name(),
			Message:  fmt.Sprintf("cannot join %T in %s mode", v, t.cfg.encoding.Name()),
		}
	}
}
