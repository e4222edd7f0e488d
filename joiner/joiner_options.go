package joiner

import (
	"bytes"

	"github.com/flow-io/flowjoin/codec"
	"github.com/flow-io/flowjoin/flowerrors"
	"github.com/flow-io/flowjoin/internal/options"
	"github.com/flow-io/flowjoin/loop"
	"github.com/flow-io/flowjoin/stream"
)

// Option is a function that configures a join transform
type Option func(*joinConfig) error

// joinConfig holds everything options can set before resolution
type joinConfig struct {
	settings Settings

	logger stream.Logger
	loop   *loop.Loop
}

// applyOptions applies option functions over a copy of defaults
func applyOptions(defaults Settings, opts ...Option) (*joinConfig, error) {
	cfg := &joinConfig{settings: defaults}
	cfg.settings.SeparatorBytes = bytes.Clone(defaults.SeparatorBytes)

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithSeparator sets the separator text
func WithSeparator(sep string) Option {
	return func(cfg *joinConfig) error {
		cfg.settings.Separator = sep
		cfg.settings.SeparatorBytes = nil
		return nil
	}
}

// WithSeparatorBytes sets a raw separator, bypassing text decoding
func WithSeparatorBytes(sep []byte) Option {
	return func(cfg *joinConfig) error {
		if sep == nil {
			return &flowerrors.ConfigError{Option: "separator", Expected: "byte sequence", Message: "nil separator"}
		}
		cfg.settings.SeparatorBytes = bytes.Clone(sep)
		return nil
	}
}

// WithObjectMode enables or disables object mode
func WithObjectMode(enabled bool) Option {
	return func(cfg *joinConfig) error {
		cfg.settings.ObjectMode = enabled
		return nil
	}
}

// WithEncoding sets the encoding of chunks and output.
// An empty name selects the default text encoding.
func WithEncoding(name string) Option {
	return func(cfg *joinConfig) error {
		if _, err := codec.Lookup(name); err != nil {
			return &flowerrors.ConfigError{Option: "encoding", Value: name, Message: "unsupported encoding", Cause: err}
		}
		cfg.settings.Encoding = name
		return nil
	}
}

// WithHighWaterMark sets the buffering threshold forwarded to the runtime
func WithHighWaterMark(n int) Option {
	return func(cfg *joinConfig) error {
		if n < 0 {
			return &flowerrors.ConfigError{Option: "highWaterMark", Value: n, Expected: "non-negative integer"}
		}
		cfg.settings.HighWaterMark = n
		return nil
	}
}

// WithAllowHalfOpen sets the half-open flag forwarded to the runtime
func WithAllowHalfOpen(enabled bool) Option {
	return func(cfg *joinConfig) error {
		cfg.settings.AllowHalfOpen = enabled
		return nil
	}
}

// WithReadableObjectMode puts only the readable side in object mode
func WithReadableObjectMode(enabled bool) Option {
	return func(cfg *joinConfig) error {
		cfg.settings.ReadableObjectMode = enabled
		return nil
	}
}

// WithSettings replaces every setting at once
func WithSettings(s Settings) Option {
	return func(cfg *joinConfig) error {
		cfg.settings = s
		cfg.settings.SeparatorBytes = bytes.Clone(s.SeparatorBytes)
		return nil
	}
}

// WithLogger sets the logger used by the transform and its runtime
func WithLogger(l stream.Logger) Option {
	return func(cfg *joinConfig) error {
		if l == nil {
			l = stream.NopLogger{}
		}
		cfg.logger = l
		return nil
	}
}

// WithLoop makes the transform schedule its signals on l, so several
// streams can share one loop
func WithLoop(l *loop.Loop) Option {
	return func(cfg *joinConfig) error {
		cfg.loop = l
		return nil
	}
}

// optionField describes one recognised key of an untyped option set
type optionField struct {
	name    string
	aliases []string
	apply   func(s *Settings, key string, v any) error
}

// optionSchema lists the recognised keys in the order they are checked
var optionSchema = []optionField{
	{
		name:    "separator",
		aliases: []string{"sep"},
		apply: func(s *Settings, key string, v any) error {
			text, raw, isBytes, err := options.TextOrBytes(key, v)
			if err != nil {
				return err
			}
			if isBytes {
				s.SeparatorBytes = raw
				return nil
			}
			s.Separator = text
			s.SeparatorBytes = nil
			return nil
		},
	},
	{
		name: "objectMode",
		apply: func(s *Settings, key string, v any) error {
			b, err := options.Bool(key, v)
			s.ObjectMode = b
			return err
		},
	},
	{
		name: "encoding",
		apply: func(s *Settings, key string, v any) error {
			if v == nil {
				s.Encoding = ""
				return nil
			}
			name, err := options.String(key, v)
			if err != nil {
				return err
			}
			if _, err := codec.Lookup(name); err != nil {
				return &flowerrors.ConfigError{Option: key, Value: name, Message: "unsupported encoding", Cause: err}
			}
			s.Encoding = name
			return nil
		},
	},
	{
		name: "highWaterMark",
		apply: func(s *Settings, key string, v any) error {
			n, err := options.NonNegativeInt(key, v)
			s.HighWaterMark = n
			return err
		},
	},
	{
		name: "allowHalfOpen",
		apply: func(s *Settings, key string, v any) error {
			b, err := options.Bool(key, v)
			s.AllowHalfOpen = b
			return err
		},
	},
	{
		name: "readableObjectMode",
		apply: func(s *Settings, key string, v any) error {
			b, err := options.Bool(key, v)
			s.ReadableObjectMode = b
			return err
		},
	},
}

// WithOptionMap applies an untyped option set, such as one decoded from
// YAML or JSON. Every recognised key is checked against its declared type
// and the first mismatch fails with a ConfigError naming the key.
// Unrecognised keys are ignored.
func WithOptionMap(m map[string]any) Option {
	return func(cfg *joinConfig) error {
		next := cfg.settings
		for _, field := range optionSchema {
			for _, key := range append([]string{field.name}, field.aliases...) {
				v, ok := m[key]
				if !ok {
					continue
				}
				if err := field.apply(&next, key, v); err != nil {
					return err
				}
				break
			}
		}
		cfg.settings = next
		return nil
	}
}
