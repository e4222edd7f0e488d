package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
	}{
		{name: "empty means default", input: "", wantName: UTF8},
		{name: "utf8", input: "utf8", wantName: UTF8},
		{name: "utf-8 alias", input: "UTF-8", wantName: UTF8},
		{name: "base64", input: "base64", wantName: Base64},
		{name: "base64url", input: "base64url", wantName: Base64URL},
		{name: "hex", input: " Hex ", wantName: Hex},
		{name: "ascii", input: "ascii", wantName: ASCII},
		{name: "latin1", input: "latin1", wantName: Latin1},
		{name: "binary alias", input: "binary", wantName: Latin1},
		{name: "ucs2 alias", input: "ucs2", wantName: UTF16LE},
		{name: "utf-16le alias", input: "utf-16le", wantName: UTF16LE},
		{name: "IANA charset", input: "windows-1252", wantName: "windows-1252"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := Lookup(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, enc.Name())
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("no-such-encoding")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownEncoding)
	assert.Contains(t, err.Error(), "no-such-encoding")
}

func TestDefault(t *testing.T) {
	assert.True(t, IsDefault(Default()))
	assert.False(t, IsDefault(nil))

	b64, err := Lookup("base64")
	require.NoError(t, err)
	assert.False(t, IsDefault(b64))
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{ASCII, Base64, Base64URL, Hex, Latin1, UTF16LE, UTF8}, Names())
}

func TestBytesAndString(t *testing.T) {
	tests := []struct {
		encoding string
		text     string
		raw      []byte
	}{
		{encoding: UTF8, text: "héllo", raw: []byte("héllo")},
		{encoding: Base64, text: "fA==", raw: []byte("|")},
		{encoding: Base64URL, text: "-_8", raw: []byte{0xfb, 0xff}},
		{encoding: Hex, text: "7c31", raw: []byte("|1")},
		{encoding: ASCII, text: "abc", raw: []byte("abc")},
		{encoding: Latin1, text: "é", raw: []byte{0xe9}},
		{encoding: UTF16LE, text: "A", raw: []byte{0x41, 0x00}},
		{encoding: "windows-1252", text: "€", raw: []byte{0x80}},
	}

	for _, tt := range tests {
		t.Run(tt.encoding, func(t *testing.T) {
			enc, err := Lookup(tt.encoding)
			require.NoError(t, err)

			raw, err := enc.Bytes(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.raw, raw)

			text, err := enc.String(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.text, text)
		})
	}
}

func TestBase64AcceptsUnpaddedInput(t *testing.T) {
	enc, err := Lookup(Base64)
	require.NoError(t, err)

	raw, err := enc.Bytes("MQ")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), raw)
}

func TestBytesIsLenient(t *testing.T) {
	tests := []struct {
		name     string
		encoding string
		text     string
		want     []byte
	}{
		{"base64 trailing carriage return", Base64, "Mg==\r", []byte("2")},
		{"base64 trailing space", Base64, "Mg== ", []byte("2")},
		{"base64 embedded newline", Base64, "M\ng=", []byte("2")},
		{"base64 stops at padding", Base64, "MQ==Mg==", []byte("1")},
		{"base64 url alphabet", Base64, "-_8", []byte{0xfb, 0xff}},
		{"base64 dangling character", Base64, "MTIzN", []byte("123")},
		{"base64 garbage", Base64, "!!!", []byte{}},
		{"hex odd length", Hex, "313", []byte("1")},
		{"hex stops at invalid pair", Hex, "31zz32", []byte("1")},
		{"hex garbage", Hex, "zz", []byte{}},
		{"ascii keeps low byte", ASCII, "é", []byte{0xe9}},
		{"latin1 replaces unsupported", Latin1, "a€", []byte{'a', 0x1a}},
		{"utf8 replaces invalid", UTF8, string([]byte{'a', 0xff}), []byte("a\uFFFD")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := Lookup(tt.encoding)
			require.NoError(t, err)
			raw, err := enc.Bytes(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, raw)
		})
	}
}

func TestStringIsLenient(t *testing.T) {
	ascii, err := Lookup(ASCII)
	require.NoError(t, err)
	text, err := ascii.String([]byte{0xc1, 'b'})
	require.NoError(t, err)
	assert.Equal(t, "Ab", text)

	u8, err := Lookup(UTF8)
	require.NoError(t, err)
	text, err = u8.String([]byte{'x', 0xff})
	require.NoError(t, err)
	assert.Equal(t, "x\uFFFD", text)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		encoding string
		text     string
		wantErr  bool
	}{
		{Base64, "fA==", false},
		{Base64, "fA", false},
		{Base64, "Mg==\r", true},
		{Base64, "!!!", true},
		{Base64URL, "-_8", false},
		{Hex, "7c", false},
		{Hex, "7", true},
		{Hex, "zz", true},
		{ASCII, "abc", false},
		{ASCII, "é", true},
		{Latin1, "é", false},
		{Latin1, "€", true},
		{UTF8, "héllo", false},
		{UTF8, string([]byte{0xff}), true},
	}

	for _, tt := range tests {
		t.Run(tt.encoding+"/"+tt.text, func(t *testing.T) {
			enc, err := Lookup(tt.encoding)
			require.NoError(t, err)
			err = Validate(enc, tt.text)
			if tt.wantErr {
				assert.ErrorContains(t, err, tt.encoding)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
