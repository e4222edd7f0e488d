// Package options provides shared utilities for option validation across packages.
package options

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/flow-io/flowjoin/flowerrors"
)

// ValidateSingleInputSource ensures exactly one input source is specified.
// sources is a variadic list of booleans indicating whether each source is set.
// noSourceMsg is the error message when no source is specified.
// multiSourceMsg is the error message when multiple sources are specified.
func ValidateSingleInputSource(noSourceMsg, multiSourceMsg string, sources ...bool) error {
	sourceCount := 0
	for _, hasSource := range sources {
		if hasSource {
			sourceCount++
		}
	}

	if sourceCount == 0 {
		return fmt.Errorf("%s", noSourceMsg)
	}
	if sourceCount > 1 {
		return fmt.Errorf("%s", multiSourceMsg)
	}

	return nil
}

// typeError builds the ConfigError reported for a value of the wrong type.
func typeError(option string, value any, expected string) error {
	return &flowerrors.ConfigError{
		Option:   option,
		Value:    value,
		Expected: expected,
		Message:  fmt.Sprintf("got %T", value),
	}
}

// Bool returns v as a bool or a ConfigError naming option.
func Bool(option string, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, typeError(option, v, "boolean")
	}
	return b, nil
}

// String returns v as a string or a ConfigError naming option.
func String(option string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", typeError(option, v, "string")
	}
	return s, nil
}

// TextOrBytes accepts a string or a byte slice. isBytes reports which one v was.
func TextOrBytes(option string, v any) (text string, raw []byte, isBytes bool, err error) {
	switch t := v.(type) {
	case string:
		return t, nil, false, nil
	case []byte:
		return "", append([]byte(nil), t...), true, nil
	default:
		return "", nil, false, typeError(option, v, "string or byte sequence")
	}
}

// NonNegativeInt returns v as a non-negative int. Decoders produce integers
// in several shapes (YAML ints, JSON float64 or json.Number), so every
// integral numeric type is accepted.
func NonNegativeInt(option string, v any) (int, error) {
	var n int64
	switch t := v.(type) {
	case int:
		n = int64(t)
	case int8:
		n = int64(t)
	case int16:
		n = int64(t)
	case int32:
		n = int64(t)
	case int64:
		n = t
	case uint:
		if uint64(t) > math.MaxInt64 {
			return 0, typeError(option, v, "non-negative integer")
		}
		n = int64(t)
	case uint8:
		n = int64(t)
	case uint16:
		n = int64(t)
	case uint32:
		n = int64(t)
	case uint64:
		if t > math.MaxInt64 {
			return 0, typeError(option, v, "non-negative integer")
		}
		n = int64(t)
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) || t > math.MaxInt64 || t < math.MinInt64 {
			return 0, typeError(option, v, "non-negative integer")
		}
		n = int64(t)
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			return 0, typeError(option, v, "non-negative integer")
		}
		n = i
	default:
		return 0, typeError(option, v, "non-negative integer")
	}
	if n < 0 || n > math.MaxInt32 {
		return 0, &flowerrors.ConfigError{
			Option:   option,
			Value:    v,
			Expected: "non-negative integer",
			Message:  "out of range",
		}
	}
	return int(n), nil
}
