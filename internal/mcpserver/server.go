// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes filemerge jobs as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/erraggy/filemerge"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `filemerge MCP server: concatenates ordered lists of source files into target files.

Jobs run in order; the first failure stops the batch and leaves the failing target partially written. Use check before merge to find missing sources without writing anything.

Configuration: defaults are configurable via FILEMERGE_* environment variables set in your MCP client config.

Key settings:
- FILEMERGE_LINE_SEPARATOR (default: lf) - separator between fragments of inline jobs (lf, crlf, cr, native or an escape such as \r\n)
- FILEMERGE_CONCURRENCY (default: 1) - number of jobs run at once
- FILEMERGE_SYNC (default: true) - fsync the target after every fragment
- FILEMERGE_MAX_JOBS (default: 100) - maximum number of jobs per call`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "filemerge", Version: filemerge.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "merge",
		Description: "Concatenate source files into target files. Provide either jobs (an array of {target, sources, rewrite_newlines}) or job_file (path to a YAML or JSON job file). Sources are appended in order with line_separator between them, never after the last one. rewrite_newlines normalizes every line break in a job's sources and replaces its separator. Returns bytes written per job, or an error with the failing job index, stage and kind. Existing targets are replaced.",
	}, handleMerge)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check",
		Description: "Validate merge jobs without writing anything. Accepts the same jobs or job_file input as merge and reports the planned jobs plus problems the merge would hit: missing sources, directories used as sources or targets, and target parents that are files.",
	}, handleCheck)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
