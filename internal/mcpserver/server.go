// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes the flowjoin join transform as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"
	"strconv"

	"github.com/flow-io/flowjoin"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `flowjoin MCP server: joins records into one stream by inserting a separator between consecutive records.

Configuration: defaults are configurable via FLOWJOIN_* environment variables set in your MCP client config.

Key settings:
- FLOWJOIN_SEPARATOR (default: "\n") - default separator; escapes \t \n \r \0 \\ \xHH are interpreted
- FLOWJOIN_ENCODING (default: utf8) - default encoding of records and output
- FLOWJOIN_MAX_CHUNKS (default: 10000) - maximum number of records accepted per call`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "flowjoin", Version: flowjoin.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "join",
		Description: "Join records into one stream by inserting a separator between every two consecutive records. Provide the records as a chunks array, or as text plus a split delimiter (default tab). The first output equals the first record; every later output is separator + record. With a non-default encoding (base64, hex, latin1, ...) records and separator are expressed in that encoding and so is the output. Defaults are configurable via FLOWJOIN_SEPARATOR and FLOWJOIN_ENCODING env vars.",
	}, handleJoin)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve_options",
		Description: "Validate a join option set (separator, objectMode, encoding, highWaterMark, allowHalfOpen, readableObjectMode) and return the fully resolved configuration. Type mismatches are reported with the offending option name.",
	}, handleResolveOptions)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

func formatCount(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
