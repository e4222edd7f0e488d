package mcpserver

import (
	"context"
	"strconv"

	"github.com/flow-io/flowjoin/codec"
	"github.com/flow-io/flowjoin/joiner"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type resolveOptionsInput struct {
	Options map[string]any `json:"options,omitempty" jsonschema:"Option set to validate, e.g. {\"separator\": \"|\", \"objectMode\": true}. Unrecognised keys are ignored."`
}

type resolveOptionsOutput struct {
	Separator          string `json:"separator"`
	SeparatorHex       string `json:"separator_hex"`
	Encoding           string `json:"encoding"`
	ObjectMode         bool   `json:"object_mode"`
	HighWaterMark      int    `json:"high_water_mark"`
	AllowHalfOpen      bool   `json:"allow_half_open"`
	ReadableObjectMode bool   `json:"readable_object_mode"`
	WritableObjectMode bool   `json:"writable_object_mode"`
	DecodeStrings      bool   `json:"decode_strings"`
	Summary            string `json:"summary"`
}

func handleResolveOptions(_ context.Context, _ *mcp.CallToolRequest, input resolveOptionsInput) (*mcp.CallToolResult, resolveOptionsOutput, error) {
	c, err := joiner.NewConfig(joiner.WithOptionMap(input.Options))
	if err != nil {
		return errResult(err), resolveOptionsOutput{}, nil
	}

	hexEnc, err := codec.Lookup(codec.Hex)
	if err != nil {
		return errResult(err), resolveOptionsOutput{}, nil
	}
	sepHex, err := hexEnc.String(c.SeparatorBytes())
	if err != nil {
		return errResult(err), resolveOptionsOutput{}, nil
	}

	output := resolveOptionsOutput{
		Separator:          c.Separator(),
		SeparatorHex:       sepHex,
		Encoding:           c.Encoding().Name(),
		ObjectMode:         c.ObjectMode(),
		HighWaterMark:      c.HighWaterMark(),
		AllowHalfOpen:      c.AllowHalfOpen(),
		ReadableObjectMode: c.ReadableObjectMode(),
		WritableObjectMode: c.WritableObjectMode(),
		DecodeStrings:      c.DecodeStrings(),
	}
	output.Summary = "Options valid: separator " + strconv.Quote(output.Separator) +
		" (" + formatCount(len(c.SeparatorBytes()), "byte") + "), encoding " + output.Encoding +
		", high-water mark " + strconv.Itoa(output.HighWaterMark) + "."
	return nil, output, nil
}
