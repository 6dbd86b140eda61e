package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/erraggy/filemerge/internal/cliutil"
	"github.com/erraggy/filemerge/internal/mcpserver"
)

// HandleMCP starts the MCP server over stdio.
func HandleMCP(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: filemerge mcp\n\n")
		cliutil.Writef(fs.Output(), "Serve the merge and check tools over the Model Context Protocol on stdin/stdout.\n\n")
		cliutil.Writef(fs.Output(), "Environment:\n")
		cliutil.Writef(fs.Output(), "  FILEMERGE_LINE_SEPARATOR   separator for inline jobs (default: lf)\n")
		cliutil.Writef(fs.Output(), "  FILEMERGE_CONCURRENCY      jobs run at once (default: 1)\n")
		cliutil.Writef(fs.Output(), "  FILEMERGE_SYNC             fsync after every fragment (default: true)\n")
		cliutil.Writef(fs.Output(), "  FILEMERGE_MAX_JOBS         jobs allowed per call (default: 100)\n")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return fmt.Errorf("mcp command takes no arguments, got %d", fs.NArg())
	}
	return mcpserver.Run(ctx)
}
