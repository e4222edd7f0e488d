package main

import (
	"fmt"
	"os"

	"github.com/flow-io/flowjoin"
	"github.com/flow-io/flowjoin/cmd/flowjoin/commands"
)

// knownCommands lists the commands suggestCommand matches against.
var knownCommands = []string{"join", "mcp", "version", "help"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		commands.HandleVersion(os.Stdout)
	case "help", "-h", "--help":
		printUsage()
	case "join":
		if err := commands.HandleJoin(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := commands.HandleMCP(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if s := suggestCommand(command); s != "" {
			fmt.Fprintf(os.Stderr, "Did you mean '%s'?\n", s)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}
}

// suggestCommand returns the known command closest to input, or "" when
// none is within an edit distance of 2.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, cmd := range knownCommands {
		if d := levenshtein(input, cmd); d < bestDist {
			best, bestDist = cmd, d
		}
	}
	return best
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func printUsage() {
	fmt.Printf(`flowjoin v%s - join stream records with a separator

Usage:
  flowjoin <command> [options]

Commands:
  join        Split input into records and join them with a separator
  mcp         Run the MCP server over stdio
  version     Show version information
  help        Show this help message

Examples:
  printf 'a\tb\tc' | flowjoin join
  flowjoin join --split , --sep ' | ' records.csv
  flowjoin join --encoding base64 --sep fA== -o joined.b64 chunks.txt
  flowjoin mcp

Run 'flowjoin <command> --help' for more information on a command.
`, flowjoin.Version())
}
