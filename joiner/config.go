package joiner

import (
	"bytes"
	"unicode/utf8"

	"github.com/flow-io/flowjoin/codec"
	"github.com/flow-io/flowjoin/flowerrors"
	"github.com/flow-io/flowjoin/stream"
)

// Settings is an unresolved set of join options.
type Settings struct {
	// Separator is inserted between consecutive chunks. With a non-default
	// encoding it is read as text in that encoding, e.g. "fA==" in base64.
	Separator string
	// SeparatorBytes, when non-nil, is the raw separator and takes
	// precedence over Separator.
	SeparatorBytes []byte
	// ObjectMode treats written values as opaque records.
	ObjectMode bool
	// Encoding names the encoding of chunks and output.
	// Empty means the default text encoding.
	Encoding string
	// HighWaterMark is forwarded to the stream runtime.
	HighWaterMark int
	// AllowHalfOpen is forwarded to the stream runtime.
	AllowHalfOpen bool
	// ReadableObjectMode is forwarded to the stream runtime.
	ReadableObjectMode bool
}

// DefaultSettings returns the default option set. Each call returns a new
// value, so callers may modify the result freely.
func DefaultSettings() Settings {
	return Settings{
		Separator:     "\n",
		HighWaterMark: stream.DefaultHighWaterMark,
	}
}

// Config is a fully resolved, immutable join configuration.
type Config struct {
	separator      string
	separatorBytes []byte
	encoding       codec.Encoding
	objectMode     bool
	stream         stream.Options
}

// Resolve applies opts over defaults and validates the result. Only the
// settings carried by opts are considered; logger and loop options are
// ignored.
func Resolve(defaults Settings, opts ...Option) (*Config, error) {
	cfg, err := applyOptions(defaults, opts...)
	if err != nil {
		return nil, err
	}
	return cfg.settings.resolve()
}

// NewConfig resolves opts over DefaultSettings.
func NewConfig(opts ...Option) (*Config, error) {
	return Resolve(DefaultSettings(), opts...)
}

func (s Settings) resolve() (*Config, error) {
	if s.HighWaterMark < 0 {
		return nil, &flowerrors.ConfigError{
			Option:   "highWaterMark",
			Value:    s.HighWaterMark,
			Expected: "non-negative integer",
		}
	}

	enc, err := codec.Lookup(s.Encoding)
	if err != nil {
		return nil, &flowerrors.ConfigError{
			Option:  "encoding",
			Value:   s.Encoding,
			Message: "unsupported encoding",
			Cause:   err,
		}
	}
	if s.ObjectMode && !codec.IsDefault(enc) {
		return nil, &flowerrors.ConfigError{
			Option:  "objectMode",
			Value:   s.ObjectMode,
			Message: "object mode requires the default text encoding, got " + enc.Name(),
		}
	}

	cfg := &Config{
		encoding:   enc,
		objectMode: s.ObjectMode,
		stream: stream.Options{
			HighWaterMark:      s.HighWaterMark,
			ReadableObjectMode: s.ObjectMode || s.ReadableObjectMode,
			// Every write must reach the transform as its own record, never
			// merged with its neighbours by a byte buffer.
			WritableObjectMode: true,
			DecodeStrings:      false,
			AllowHalfOpen:      s.AllowHalfOpen,
			Encoding:           enc.Name(),
		},
	}

	if codec.IsDefault(enc) {
		sep := s.Separator
		if s.SeparatorBytes != nil {
			sep = string(s.SeparatorBytes)
		}
		if !utf8.ValidString(sep) {
			return nil, &flowerrors.ConfigError{
				Option:  "separator",
				Value:   sep,
				Message: "separator is not valid UTF-8",
			}
		}
		cfg.separator = sep
		return cfg, nil
	}

	raw := bytes.Clone(s.SeparatorBytes)
	if raw == nil {
		if err := codec.Validate(enc, s.Separator); err != nil {
			return nil, &flowerrors.ConfigError{
				Option:  "separator",
				Value:   s.Separator,
				Message: "separator is not representable in " + enc.Name(),
				Cause:   err,
			}
		}
		raw, err = enc.Bytes(s.Separator)
		if err != nil {
			return nil, &flowerrors.ConfigError{
				Option:  "separator",
				Value:   s.Separator,
				Message: "separator is not representable in " + enc.Name(),
				Cause:   err,
			}
		}
	}
	text, err := enc.String(raw)
	if err != nil {
		return nil, &flowerrors.ConfigError{
			Option:  "separator",
			Value:   raw,
			Message: "separator bytes are not representable in " + enc.Name(),
			Cause:   err,
		}
	}
	cfg.separator = text
	cfg.separatorBytes = raw
	return cfg, nil
}

// Separator returns the separator as text in the configured encoding.
func (c *Config) Separator() string { return c.separator }

// SeparatorBytes returns a copy of the raw separator bytes.
func (c *Config) SeparatorBytes() []byte {
	if c.separatorBytes == nil {
		return []byte(c.separator)
	}
	return bytes.Clone(c.separatorBytes)
}

// Encoding returns the configured encoding.
func (c *Config) Encoding() codec.Encoding { return c.encoding }

// TextMode reports whether chunks are joined as text, which is the case
// for the default encoding.
func (c *Config) TextMode() bool { return codec.IsDefault(c.encoding) }

// ObjectMode reports whether written values are treated as opaque records.
func (c *Config) ObjectMode() bool { return c.objectMode }

// HighWaterMark returns the buffering threshold forwarded to the runtime.
func (c *Config) HighWaterMark() int { return c.stream.HighWaterMark }

// AllowHalfOpen returns the half-open setting forwarded to the runtime.
func (c *Config) AllowHalfOpen() bool { return c.stream.AllowHalfOpen }

// ReadableObjectMode reports whether the readable side runs in object mode.
func (c *Config) ReadableObjectMode() bool { return c.stream.ReadableObjectMode }

// WritableObjectMode is always true: each write is one record.
func (c *Config) WritableObjectMode() bool { return c.stream.WritableObjectMode }

// DecodeStrings is always false: chunks reach the transform as written.
func (c *Config) DecodeStrings() bool { return c.stream.DecodeStrings }

// StreamOptions returns the buffering options forwarded to the runtime.
func (c *Config) StreamOptions() stream.Options { return c.stream }
