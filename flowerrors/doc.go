// Package flowerrors provides structured error types for flowjoin.
//
// Import path: github.com/flow-io/flowjoin/flowerrors
//
// Callers distinguish error categories with [errors.Is] and extract details
// with [errors.As].
//
// # Error Types
//
//   - [ConfigError]: an option failed validation while a transform was being built
//   - [ParseError]: an options file could not be read or decoded
//   - [ChunkError]: a written chunk could not be joined, such as a structured
//     value in byte mode or a chunk in an unknown encoding
//
// # Sentinel Errors
//
//   - [ErrConfig]: matches any [ConfigError]
//   - [ErrParse]: matches any [ParseError]
//   - [ErrChunk]: matches any [ChunkError]
//   - [ErrDestroyed]: a write reached a stream that has been shut down
//   - [ErrWriteAfterEnd]: a write reached a stream whose writable side has ended
//
// # Usage
//
//	t, err := joiner.New(joiner.WithOptionMap(map[string]any{"objectMode": "beep"}))
//	var cfgErr *flowerrors.ConfigError
//	if errors.As(err, &cfgErr) {
//	    fmt.Println(cfgErr.Option) // objectMode
//	}
//
// Errors handed to a transform's Shutdown are never wrapped: listeners
// registered with OnError receive the exact value.
package flowerrors
