package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/filemerge/internal/testutil"
)

func TestCheckTool_Ready(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "a.txt", "a")

	input := checkInput{
		Jobs: []jobInput{
			{Target: "first.txt", Sources: []string{"a.txt"}},
			{Target: "second.txt", Sources: []string{"first.txt"}, RewriteNewlines: "lf"},
			{Target: "empty.txt"},
		},
		BaseDir: dir,
	}
	result, output, err := handleCheck(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.Nil(t, result)

	assert.True(t, output.Valid)
	assert.Equal(t, 3, output.JobCount)
	assert.Equal(t, 0, output.IssueCount)
	require.Len(t, output.Jobs, 3)
	assert.Equal(t, filepath.Join(dir, "second.txt"), output.Jobs[1].Target)
	assert.Equal(t, "lf", output.Jobs[1].RewriteNewlines)
	assert.Equal(t, []string{}, output.Jobs[2].Sources)
	assert.Contains(t, output.Summary, "ready to merge")

	assert.NoFileExists(t, filepath.Join(dir, "first.txt"))
}

func TestCheckTool_Issues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	input := checkInput{
		Jobs: []jobInput{
			{Target: "out.txt", Sources: []string{"missing.txt", "sub"}},
		},
		BaseDir: dir,
	}
	_, output, err := handleCheck(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	assert.False(t, output.Valid)
	assert.Equal(t, 2, output.IssueCount)
	require.Len(t, output.Issues, 2)
	assert.Equal(t, "source not found", output.Issues[0].Kind)
	assert.Equal(t, filepath.Join(dir, "missing.txt"), output.Issues[0].Path)
	assert.Equal(t, "invalid source", output.Issues[1].Kind)
	assert.Contains(t, output.Summary, "2 problem(s)")
}

func TestCheckTool_InvalidBatch(t *testing.T) {
	result, _, err := handleCheck(context.Background(), &mcp.CallToolRequest{}, checkInput{
		Jobs: []jobInput{{Target: "x.txt", Sources: []string{"x.txt"}}},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}
