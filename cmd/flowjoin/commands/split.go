package commands

import (
	"bufio"
	"bytes"
)

// maxRecordSize bounds a single record read from the input.
const maxRecordSize = 16 * 1024 * 1024

// ScanRecords returns a bufio.SplitFunc that splits input on delim. The
// delimiter is dropped; a final record without a trailing delimiter is still
// returned, while empty input yields no records.
func ScanRecords(delim []byte) bufio.SplitFunc {
	return func(data []byte, atEOF bool) (int, []byte, error) {
		if atEOF && len(data) == 0 {
			return 0, nil, nil
		}
		if i := bytes.Index(data, delim); i >= 0 {
			return i + len(delim), data[:i], nil
		}
		if atEOF {
			return len(data), data, nil
		}
		return 0, nil, nil
	}
}
