// Package joiner provides the join transform: a stream stage that glues
// discrete records back into one continuous text stream by inserting a
// separator between every two consecutive records.
//
// The first record is emitted as is. Every later record is emitted with the
// separator prepended, so writing "1", "2", "3" with the default separator
// produces "1", "\n2", "\n3". Exactly one output chunk is emitted per input
// chunk, in write order.
//
// # Quick Start
//
//	t, err := joiner.New(joiner.WithSeparator(", "))
//	if err != nil {
//		log.Fatal(err)
//	}
//	t.OnData(func(c stream.Chunk) { fmt.Print(c.Value) })
//	for _, rec := range []string{"a", "b", "c"} {
//		_, _ = t.WriteString(rec, "")
//	}
//	_ = t.End()
//	t.Loop().Drain() // a, b, c
//
// # Configuration
//
// Options are resolved once, at construction, over an explicit default value
// ([DefaultSettings]). Each option validates its own argument and the
// resolved [Config] is immutable:
//
//   - WithSeparator / WithSeparatorBytes: the separator, "\n" by default
//   - WithObjectMode: treat written values as opaque records
//   - WithEncoding: the encoding chunks and output are expressed in
//   - WithHighWaterMark, WithAllowHalfOpen, WithReadableObjectMode: buffering
//     parameters forwarded to the stream runtime
//
// Untyped option sets, such as those decoded from YAML or JSON, go through
// [WithOptionMap], which checks every recognised key against its declared
// type and reports mismatches as *flowerrors.ConfigError naming the key.
// [LoadOptionsFile] reads such a set from a YAML file.
//
// # Encodings
//
// With the default encoding (utf8) the separator and chunks are joined as
// text. With any other encoding the separator is converted to bytes once,
// when the options are resolved; each later chunk is decoded from the
// encoding it was written with, appended to the separator bytes, and the
// result is re-encoded as a string in the configured encoding. Output is
// always textual. Chunks are decoded leniently: stray whitespace in base64,
// a trailing odd hex digit or invalid UTF-8 never fail a write. The
// separator, by contrast, must be well-formed in the configured encoding.
//
// # Shutdown
//
// Shutdown is idempotent. The first call marks the transform destroyed at
// once and schedules, on the transform's loop, an error signal (only when an
// error was given) followed by a close signal. Listeners registered right
// after the call still observe both. Output still buffered is dropped at
// once, so data listeners see nothing further. Writes after Shutdown fail
// with flowerrors.ErrDestroyed.
package joiner
