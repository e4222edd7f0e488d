package stream

import (
	"github.com/flow-io/flowjoin/codec"
	"github.com/flow-io/flowjoin/flowerrors"
	"github.com/flow-io/flowjoin/loop"
)

// Duplex connects a writable side to a readable side through a Transformer.
type Duplex struct {
	opts Options
	t    Transformer
	loop *loop.Loop
	log  Logger

	buf     []Chunk
	bufSize int
	written int

	flowing        bool
	flushScheduled bool
	needDrain      bool
	ended          bool
	endEmitted     bool
	closed         bool
	halted         bool

	onData  []func(Chunk)
	onEnd   []func()
	onDrain []func()
	onError []func(error)
	onClose []func()
}

// NewDuplex creates a Duplex that runs t for every written chunk.
func NewDuplex(t Transformer, opts Options) *Duplex {
	if opts.HighWaterMark < 0 {
		opts.HighWaterMark = DefaultHighWaterMark
	}
	d := &Duplex{
		opts: opts,
		t:    t,
		loop: opts.Loop,
		log:  opts.Logger,
	}
	if d.loop == nil {
		d.loop = loop.New()
	}
	if d.log == nil {
		d.log = NopLogger{}
	}
	d.opts.Loop = d.loop
	d.opts.Logger = d.log
	return d
}

// Loop returns the loop the Duplex schedules its signals on.
func (d *Duplex) Loop() *loop.Loop { return d.loop }

// Options returns the options the Duplex was built with.
func (d *Duplex) Options() Options { return d.opts }

// Ended reports whether End has been called.
func (d *Duplex) Ended() bool { return d.ended }

// Closed reports whether Teardown has run.
func (d *Duplex) Closed() bool { return d.closed }

// Buffered returns the number of chunks waiting on the readable side.
func (d *Duplex) Buffered() int { return len(d.buf) }

// Write hands c to the transformer and returns whether the caller may keep
// writing without exceeding the high-water mark. A transformer error is
// returned as is and leaves the stream open; the owner decides whether to
// tear it down.
func (d *Duplex) Write(c Chunk) (bool, error) {
	if d.closed || d.halted {
		return false, flowerrors.ErrDestroyed
	}
	if d.ended {
		return false, flowerrors.ErrWriteAfterEnd
	}

	c, err := d.prepare(c)
	if err != nil {
		return false, err
	}
	d.written++
	if err := d.t.Transform(c, d.push); err != nil {
		return false, err
	}

	ok := d.belowHighWaterMark()
	if !ok {
		d.needDrain = true
	}
	return ok, nil
}

// prepare applies the writable-side options to an incoming chunk.
func (d *Duplex) prepare(c Chunk) (Chunk, error) {
	if d.opts.WritableObjectMode {
		return c, nil
	}
	switch v := c.Value.(type) {
	case []byte:
		return c, nil
	case string:
		if !d.opts.DecodeStrings {
			return c, nil
		}
		name := c.Encoding
		if name == "" {
			name = d.opts.Encoding
		}
		enc, err := codec.Lookup(name)
		if err != nil {
			return c, &flowerrors.ChunkError{Index: d.written, Encoding: name, Cause: err}
		}
		raw, err := enc.Bytes(v)
		if err != nil {
			return c, &flowerrors.ChunkError{Index: d.written, Encoding: name, Message: "cannot decode chunk", Cause: err}
		}
		return Chunk{Value: raw}, nil
	default:
		return c, &flowerrors.ChunkError{
			Index:   d.written,
			Message: "only strings and byte slices can be written outside object mode",
		}
	}
}

func (d *Duplex) push(c Chunk) {
	if d.closed {
		return
	}
	d.buf = append(d.buf, c)
	d.bufSize += c.size()
	if d.flowing {
		d.scheduleFlush()
	}
}

func (d *Duplex) belowHighWaterMark() bool {
	if d.opts.ReadableObjectMode {
		return len(d.buf) < d.opts.HighWaterMark
	}
	return d.bufSize < d.opts.HighWaterMark
}

// End closes the writable side. Chunks already pushed stay readable; the end
// signal fires once they have all been consumed. Calling End again is a no-op.
func (d *Duplex) End() error {
	if d.closed || d.halted {
		return flowerrors.ErrDestroyed
	}
	if d.ended {
		return nil
	}
	d.ended = true
	if f, ok := d.t.(Flusher); ok {
		if err := f.Flush(d.push); err != nil {
			return err
		}
	}
	d.maybeEnd()
	return nil
}

// Read pops the oldest buffered chunk. ok is false when the buffer is empty.
func (d *Duplex) Read() (c Chunk, ok bool) {
	if len(d.buf) == 0 {
		return Chunk{}, false
	}
	c = d.shift()
	d.afterRead()
	return c, true
}

func (d *Duplex) shift() Chunk {
	c := d.buf[0]
	d.buf[0] = Chunk{}
	d.buf = d.buf[1:]
	d.bufSize -= c.size()
	return c
}

func (d *Duplex) afterRead() {
	if d.needDrain && (len(d.buf) == 0 || d.belowHighWaterMark()) {
		d.needDrain = false
		d.loop.Enqueue(func() {
			if d.closed || d.halted {
				return
			}
			for _, fn := range d.onDrain {
				fn()
			}
		})
	}
	d.maybeEnd()
}

func (d *Duplex) maybeEnd() {
	if !d.ended || d.endEmitted || len(d.buf) > 0 {
		return
	}
	d.endEmitted = true
	d.loop.Enqueue(func() {
		if d.closed || d.halted {
			return
		}
		for _, fn := range d.onEnd {
			fn()
		}
	})
}

func (d *Duplex) scheduleFlush() {
	if d.flushScheduled {
		return
	}
	d.flushScheduled = true
	d.loop.Enqueue(d.flush)
}

// flush delivers buffered chunks to data listeners.
func (d *Duplex) flush() {
	d.flushScheduled = false
	for d.flowing && !d.closed && !d.halted && len(d.buf) > 0 {
		c := d.shift()
		for _, fn := range d.onData {
			fn(c)
		}
		d.afterRead()
	}
}

// OnData registers a data listener and switches the readable side to
// flowing mode. Buffered and future chunks are delivered in order on the loop.
func (d *Duplex) OnData(fn func(Chunk)) {
	d.onData = append(d.onData, fn)
	d.flowing = true
	if len(d.buf) > 0 {
		d.scheduleFlush()
	}
}

// OnEnd registers a listener for the end of the readable side.
func (d *Duplex) OnEnd(fn func()) { d.onEnd = append(d.onEnd, fn) }

// OnDrain registers a listener called when writing may resume after Write
// returned false.
func (d *Duplex) OnDrain(fn func()) { d.onDrain = append(d.onDrain, fn) }

// OnError registers an error listener.
func (d *Duplex) OnError(fn func(error)) { d.onError = append(d.onError, fn) }

// OnClose registers a close listener.
func (d *Duplex) OnClose(fn func()) { d.onClose = append(d.onClose, fn) }

// Halt stops the stream at once: buffered chunks are dropped, writes fail
// with flowerrors.ErrDestroyed, and no data, drain or end signal is delivered
// from then on, including signals already queued on the loop. Error and
// close are left to Teardown, which owners usually defer.
func (d *Duplex) Halt() {
	d.halted = true
	d.buf = nil
	d.bufSize = 0
}

// Halted reports whether Halt or Teardown has run.
func (d *Duplex) Halted() bool { return d.halted || d.closed }

// Teardown closes the stream for good: buffered chunks are discarded, err is
// signalled to error listeners when non-nil, then close listeners run. Only
// the first call has any effect. Teardown signals synchronously; owners that
// need deferred signalling enqueue it on the loop themselves.
func (d *Duplex) Teardown(err error) {
	if d.closed {
		return
	}
	d.closed = true
	d.buf = nil
	d.bufSize = 0

	if err != nil {
		if len(d.onError) == 0 {
			d.log.Error("unhandled stream error", "error", err)
		}
		for _, fn := range d.onError {
			fn(err)
		}
	}
	for _, fn := range d.onClose {
		fn()
	}
}
