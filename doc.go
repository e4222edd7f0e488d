// Package flowjoin joins a stream of discrete records back into a continuous
// text stream, inserting a separator between every two consecutive records.
// It is the inverse of a delimiter-based splitter.
//
// # Overview
//
// The module is organised in a handful of packages:
//
//   - joiner: the join transform and the resolver for its configuration
//   - stream: the duplex stream runtime the transform plugs into
//   - loop: the task queue that defers stream signals to the next turn
//   - codec: text encodings (utf8, base64, hex, latin1, utf16le, IANA charsets)
//   - flowerrors: structured error types for errors.Is / errors.As
//
// # Installation
//
//	go get github.com/flow-io/flowjoin
//
// # Quick Start
//
// Join three records with a newline:
//
//	import "github.com/flow-io/flowjoin/joiner"
//
//	t, err := joiner.New(joiner.WithSeparator("\n"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	t.OnData(func(c stream.Chunk) { fmt.Printf("%q\n", c.Value) })
//	for _, rec := range []string{"1", "2", "3"} {
//		if _, err := t.WriteString(rec, ""); err != nil {
//			log.Fatal(err)
//		}
//	}
//	_ = t.End()
//	t.Loop().Drain()
//	// "1"
//	// "\n2"
//	// "\n3"
//
// Load options from a YAML file instead:
//
//	opt, err := joiner.LoadOptionsFile("join.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	t, err := joiner.New(opt)
//
// # Command line
//
// The flowjoin command wraps the transform for shell pipelines:
//
//	printf 'a\tb\tc' | flowjoin join --split '\t' --sep '\n'
//
// and can serve the transform as an MCP tool with "flowjoin mcp".
package flowjoin
