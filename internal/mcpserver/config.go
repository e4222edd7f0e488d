package mcpserver

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/flow-io/flowjoin/codec"
	"github.com/flow-io/flowjoin/internal/cliutil"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Separator is the default separator, already unescaped.
	Separator string
	// Encoding is the default encoding name; empty means utf8.
	Encoding string
	// MaxChunks caps the number of records accepted per call.
	MaxChunks int
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from FLOWJOIN_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		Separator: envSeparator("FLOWJOIN_SEPARATOR", "\n"),
		Encoding:  envEncoding("FLOWJOIN_ENCODING"),
		MaxChunks: envInt("FLOWJOIN_MAX_CHUNKS", 10000),
	}
}

func envSeparator(key, fallback string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	sep, err := cliutil.Unescape(v)
	if err != nil {
		slog.Warn("invalid separator env var, using default", "key", key, "value", v, "error", err) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return sep
}

func envEncoding(key string) string {
	v := os.Getenv(key)
	if v == "" {
		return ""
	}
	if _, err := codec.Lookup(v); err != nil {
		slog.Warn("invalid encoding env var, ignoring", "key", key, "value", v) //nolint:gosec // G706: values are structured log fields, not format strings
		return ""
	}
	return v
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}
