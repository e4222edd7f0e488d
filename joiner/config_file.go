package joiner

import (
	"os"

	"github.com/flow-io/flowjoin/flowerrors"
	"go.yaml.in/yaml/v4"
)

// LoadOptionsFile reads an option set from a YAML or JSON file and returns
// it as a single Option. Keys follow WithOptionMap.
func LoadOptionsFile(path string) (Option, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the caller
	if err != nil {
		return nil, &flowerrors.ParseError{Path: path, Message: "failed to read options file", Cause: err}
	}
	return ParseOptions(data, path)
}

// ParseOptions decodes a YAML or JSON option document. source names the
// document in errors and may be empty. An empty document yields an Option
// that changes nothing.
func ParseOptions(data []byte, source string) (Option, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &flowerrors.ParseError{Path: source, Message: "invalid options document", Cause: err}
	}
	return WithOptionMap(m), nil
}
