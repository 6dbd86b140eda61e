package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/filemerge"
	"github.com/erraggy/filemerge/cmd/filemerge/commands"
)

// commandNames lists the commands suggestCommand may propose.
var commandNames = []string{"run", "check", "mcp", "version", "help"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "version", "-v", "--version":
		fmt.Printf("filemerge v%s\n", filemerge.Version())
		fmt.Println(filemerge.BuildInfo())
	case "help", "-h", "--help":
		printUsage()
	case "run":
		err = commands.HandleRun(ctx, args)
	case "check":
		err = commands.HandleCheck(args)
	case "mcp":
		err = commands.HandleMCP(ctx, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Did you mean: %s?\n", suggestion)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		stop()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// suggestCommand returns the known command closest to input, or "" when
// none is within an edit distance of 2.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, name := range commandNames {
		if d := levenshtein(input, name); d < bestDist {
			best, bestDist = name, d
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
	fmt.Println(`filemerge - concatenate ordered source files into target files

Usage:
  filemerge <command> [flags]

Commands:
  run       Run the merges of a job file, or one inline merge with -o
  check     Validate a job file and show what run would do
  mcp       Serve merge and check as MCP tools over stdio
  version   Show version information
  help      Show this help message

Examples:
  filemerge run -f merge.yaml
  filemerge run -o dist/app.properties base.properties prod.properties
  filemerge check --format json

Run 'filemerge <command> --help' for more information on a command.`)
}
