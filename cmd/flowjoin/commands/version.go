package commands

import (
	"io"

	"github.com/flow-io/flowjoin"
	"github.com/flow-io/flowjoin/internal/cliutil"
)

// HandleVersion prints the version line followed by the build details.
func HandleVersion(w io.Writer) {
	cliutil.Writef(w, "flowjoin v%s\n%s\n", flowjoin.Version(), flowjoin.BuildInfo())
}
