// Package codec maps encoding names to conversions between strings and raw
// bytes.
//
// An Encoding describes how a string chunk relates to the bytes it stands
// for. For binary-to-text encodings such as base64 or hex, Bytes decodes the
// text and String encodes bytes back into text. For character sets such as
// latin1 or utf16le, Bytes renders the string in that character set and
// String reads bytes of that character set back into a string.
//
// Decoding is lenient: Bytes and String never reject malformed input.
// Base64 skips characters outside its alphabet and stops at padding, hex
// stops at the first invalid pair, and character sets substitute a
// replacement character. [Validate] reports whether text is well-formed
// for callers that must refuse malformed input.
//
// Names are matched case-insensitively. Besides the built-in names listed by
// [Names], any IANA registered charset known to golang.org/x/text (for
// example "windows-1252" or "shift_jis") is accepted.
package codec

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// ErrUnknownEncoding is returned by Lookup for names it cannot resolve.
var ErrUnknownEncoding = errors.New("unknown encoding")

// Encoding converts between strings in a named encoding and raw bytes.
type Encoding interface {
	// Name returns the canonical name of the encoding.
	Name() string
	// Bytes converts a string in this encoding into the bytes it represents.
	Bytes(s string) ([]byte, error)
	// String renders raw bytes as a string in this encoding.
	String(b []byte) (string, error)
}

// Canonical names of the built-in encodings.
const (
	UTF8      = "utf8"
	Base64    = "base64"
	Base64URL = "base64url"
	Hex       = "hex"
	ASCII     = "ascii"
	Latin1    = "latin1"
	UTF16LE   = "utf16le"
)

var builtins = map[string]Encoding{
	UTF8:      utf8Encoding{},
	Base64:    base64Encoding{name: Base64, enc: base64.StdEncoding, strict: []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding}},
	Base64URL: base64Encoding{name: Base64URL, enc: base64.RawURLEncoding, strict: []*base64.Encoding{base64.RawURLEncoding, base64.URLEncoding}},
	Hex:       hexEncoding{},
	ASCII:     asciiEncoding{},
	Latin1:    charsetEncoding{name: Latin1, enc: charmap.ISO8859_1},
	UTF16LE:   charsetEncoding{name: UTF16LE, enc: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)},
}

var aliases = map[string]string{
	"utf-8":    UTF8,
	"binary":   Latin1,
	"ucs2":     UTF16LE,
	"ucs-2":    UTF16LE,
	"utf-16le": UTF16LE,
}

// validator is implemented by encodings that can tell well-formed text from
// text Bytes would only decode leniently.
type validator interface {
	validate(s string) error
}

// Validate reports whether s is well-formed text in e. Bytes accepts
// anything; Validate is for inputs that must round-trip exactly, such as a
// configured separator.
func Validate(e Encoding, s string) error {
	if v, ok := e.(validator); ok {
		if err := v.validate(s); err != nil {
			return fmt.Errorf("codec: %s: %w", e.Name(), err)
		}
	}
	return nil
}

// Default returns the default text encoding (utf8).
func Default() Encoding {
	return builtins[UTF8]
}

// IsDefault reports whether e is the default text encoding.
func IsDefault(e Encoding) bool {
	return e != nil && e.Name() == UTF8
}

// Names returns the canonical names of the built-in encodings, sorted.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup resolves an encoding by name. An empty name resolves to Default.
func Lookup(name string) (Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Default(), nil
	}
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	if e, ok := builtins[key]; ok {
		return e, nil
	}

	enc, err := ianaindex.IANA.Encoding(key)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("codec: %w %q", ErrUnknownEncoding, name)
	}
	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		canonical = key
	}
	return charsetEncoding{name: strings.ToLower(canonical), enc: enc}, nil
}

type utf8Encoding struct{}

func (utf8Encoding) Name() string { return UTF8 }

// Bytes replaces invalid sequences with U+FFFD.
func (utf8Encoding) Bytes(s string) ([]byte, error) {
	return []byte(strings.ToValidUTF8(s, string(utf8.RuneError))), nil
}

func (utf8Encoding) String(b []byte) (string, error) {
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("codec: utf8: %w", err)
	}
	return string(out), nil
}

func (utf8Encoding) validate(s string) error {
	if !utf8.ValidString(s) {
		return errors.New("invalid UTF-8")
	}
	return nil
}

// base64Encoding decodes both the standard and the URL alphabet, padded or
// not; output uses enc.
type base64Encoding struct {
	name   string
	enc    *base64.Encoding
	strict []*base64.Encoding
}

func (e base64Encoding) Name() string { return e.name }

// Bytes skips characters outside the alphabet, stops at the first '=' and
// drops a dangling final character.
func (e base64Encoding) Bytes(s string) ([]byte, error) {
	clean := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '=' {
			break
		}
		switch c {
		case '-':
			c = '+'
		case '_':
			c = '/'
		}
		if isBase64Char(c) {
			clean = append(clean, c)
		}
	}
	if len(clean)%4 == 1 {
		clean = clean[:len(clean)-1]
	}
	out := make([]byte, base64.RawStdEncoding.DecodedLen(len(clean)))
	n, err := base64.RawStdEncoding.Decode(out, clean)
	if err != nil {
		return nil, fmt.Errorf("codec: %s: %w", e.name, err)
	}
	return out[:n], nil
}

func (e base64Encoding) String(b []byte) (string, error) {
	return e.enc.EncodeToString(b), nil
}

func (e base64Encoding) validate(s string) error {
	var err error
	for _, enc := range e.strict {
		if _, err = enc.DecodeString(s); err == nil {
			return nil
		}
	}
	return err
}

func isBase64Char(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '+' || c == '/'
}

type hexEncoding struct{}

func (hexEncoding) Name() string { return Hex }

// Bytes decodes pairs up to the first invalid one; a trailing odd digit is
// ignored.
func (hexEncoding) Bytes(s string) ([]byte, error) {
	out := make([]byte, 0, len(s)/2)
	var b [1]byte
	for i := 0; i+1 < len(s); i += 2 {
		if _, err := hex.Decode(b[:], []byte(s[i:i+2])); err != nil {
			break
		}
		out = append(out, b[0])
	}
	return out, nil
}

func (hexEncoding) String(b []byte) (string, error) {
	return hex.EncodeToString(b), nil
}

func (hexEncoding) validate(s string) error {
	_, err := hex.DecodeString(s)
	return err
}

type asciiEncoding struct{}

func (asciiEncoding) Name() string { return ASCII }

// Bytes keeps the low byte of each rune.
func (asciiEncoding) Bytes(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		out = append(out, byte(r))
	}
	return out, nil
}

// String clears the high bit of each byte.
func (asciiEncoding) String(b []byte) (string, error) {
	out := make([]byte, len(b))
	for i, c := range b {
		out[i] = c & 0x7f
	}
	return string(out), nil
}

func (asciiEncoding) validate(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return fmt.Errorf("non-ASCII byte 0x%02x at offset %d", s[i], i)
		}
	}
	return nil
}

// charsetEncoding adapts an x/text character set.
type charsetEncoding struct {
	name string
	enc  encoding.Encoding
}

func (e charsetEncoding) Name() string { return e.name }

// Bytes substitutes the charset's replacement for runes it cannot represent.
func (e charsetEncoding) Bytes(s string) ([]byte, error) {
	out, err := encoding.ReplaceUnsupported(e.enc.NewEncoder()).String(strings.ToValidUTF8(s, string(utf8.RuneError)))
	if err != nil {
		return nil, fmt.Errorf("codec: %s: %w", e.name, err)
	}
	return []byte(out), nil
}

// String decodes invalid input as U+FFFD.
func (e charsetEncoding) String(b []byte) (string, error) {
	out, err := e.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("codec: %s: %w", e.name, err)
	}
	return string(out), nil
}

func (e charsetEncoding) validate(s string) error {
	if !utf8.ValidString(s) {
		return errors.New("invalid UTF-8")
	}
	_, err := e.enc.NewEncoder().String(s)
	return err
}
