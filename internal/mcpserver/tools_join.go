package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/flow-io/flowjoin/codec"
	"github.com/flow-io/flowjoin/internal/options"
	"github.com/flow-io/flowjoin/internal/pathutil"
	"github.com/flow-io/flowjoin/joiner"
	"github.com/flow-io/flowjoin/stream"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type joinInput struct {
	Chunks        []string `json:"chunks,omitempty"         jsonschema:"Records to join in write order"`
	Text          string   `json:"text,omitempty"           jsonschema:"Alternative to chunks: text split into records on split"`
	Split         string   `json:"split,omitempty"          jsonschema:"Delimiter used to split text into records (default tab)"`
	Separator     *string  `json:"separator,omitempty"      jsonschema:"Separator inserted between records (default newline or FLOWJOIN_SEPARATOR). With a non-default encoding it is expressed in that encoding."`
	Encoding      string   `json:"encoding,omitempty"       jsonschema:"Encoding of records and output: utf8 (default) or base64 or base64url or hex or ascii or latin1 or utf16le or any IANA charset name"`
	ObjectMode    bool     `json:"object_mode,omitempty"    jsonschema:"Treat each record as an opaque value (requires the utf8 encoding)"`
	ChunkEncoding string   `json:"chunk_encoding,omitempty" jsonschema:"Encoding the records are written in when it differs from encoding"`
	Output        string   `json:"output,omitempty"         jsonschema:"File path to write the joined stream to. If omitted the result is returned inline."`
}

type joinOutput struct {
	ChunkCount int      `json:"chunk_count"`
	Encoding   string   `json:"encoding"`
	Output     []string `json:"output,omitempty"`
	Joined     string   `json:"joined,omitempty"`
	WrittenTo  string   `json:"written_to,omitempty"`
	Summary    string   `json:"summary"`
}

func handleJoin(_ context.Context, _ *mcp.CallToolRequest, input joinInput) (*mcp.CallToolResult, joinOutput, error) {
	if err := options.ValidateSingleInputSource(
		"either chunks or text must be provided",
		"chunks and text are mutually exclusive",
		len(input.Chunks) > 0, input.Text != "",
	); err != nil {
		return errResult(err), joinOutput{}, nil
	}

	records := input.Chunks
	if input.Text != "" {
		split := input.Split
		if split == "" {
			split = "\t"
		}
		records = strings.Split(input.Text, split)
	}
	if len(records) > cfg.MaxChunks {
		return errResult(fmt.Errorf("too many chunks: got %d, maximum is %d; set FLOWJOIN_MAX_CHUNKS to increase",
			len(records), cfg.MaxChunks)), joinOutput{}, nil
	}

	sep := cfg.Separator
	if input.Separator != nil {
		sep = *input.Separator
	}
	encoding := input.Encoding
	if encoding == "" {
		encoding = cfg.Encoding
	}

	t, err := joiner.New(
		joiner.WithSeparator(sep),
		joiner.WithEncoding(encoding),
		joiner.WithObjectMode(input.ObjectMode),
	)
	if err != nil {
		return errResult(err), joinOutput{}, nil
	}

	out, err := joinRecords(t, records, input.ChunkEncoding)
	if err != nil {
		return errResult(err), joinOutput{}, nil
	}
	enc := t.Config().Encoding()
	joined, err := concatStream(out, enc)
	if err != nil {
		return errResult(err), joinOutput{}, nil
	}

	output := joinOutput{
		ChunkCount: len(out),
		Encoding:   enc.Name(),
	}

	if input.Output != "" {
		f, path, err := pathutil.CreateOutput(input.Output)
		if err != nil {
			return errResult(fmt.Errorf("invalid output path: %w", err)), joinOutput{}, nil
		}
		_, werr := f.WriteString(joined)
		if err := errors.Join(werr, f.Close()); err != nil {
			return errResult(fmt.Errorf("failed to write output file: %w", err)), joinOutput{}, nil
		}
		output.WrittenTo = path
	} else {
		output.Output = out
		output.Joined = joined
	}

	output.Summary = buildJoinSummary(output, t.Config(), len(joined))
	return nil, output, nil
}

// joinRecords writes every record to t and collects the emitted chunks.
// The loop is drained whenever t signals back-pressure.
func joinRecords(t *joiner.Transform, records []string, chunkEncoding string) ([]string, error) {
	out := make([]string, 0, len(records))
	t.OnData(func(c stream.Chunk) { out = append(out, c.String()) })

	for i, r := range records {
		ok, err := t.WriteString(r, chunkEncoding)
		if err != nil {
			return nil, fmt.Errorf("chunk[%d]: %w", i, err)
		}
		if !ok {
			t.Loop().Drain()
		}
	}
	if err := t.End(); err != nil {
		return nil, err
	}
	t.Loop().Drain()
	return out, nil
}

// concatStream returns the emitted chunks as one string in enc. Text chunks
// concatenate directly; chunks in a byte encoding are decoded, concatenated
// and re-encoded, since base64 padding does not survive concatenation.
func concatStream(chunks []string, enc codec.Encoding) (string, error) {
	if codec.IsDefault(enc) {
		return strings.Join(chunks, ""), nil
	}
	var raw []byte
	for i, c := range chunks {
		b, err := enc.Bytes(c)
		if err != nil {
			return "", fmt.Errorf("output[%d]: %w", i, err)
		}
		raw = append(raw, b...)
	}
	return enc.String(raw)
}

func buildJoinSummary(output joinOutput, c *joiner.Config, size int) string {
	summary := "Joined " + formatCount(output.ChunkCount, "chunk")
	summary += " with separator " + strconv.Quote(c.Separator())
	summary += " (" + output.Encoding
	if c.ObjectMode() {
		summary += ", object mode"
	}
	summary += ") into " + formatCount(size, "byte") + "."
	if output.WrittenTo != "" {
		summary += " Written to " + output.WrittenTo + "."
	}
	return summary
}
