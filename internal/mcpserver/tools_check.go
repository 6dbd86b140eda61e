package mcpserver

import (
	"context"
	"fmt"

	"github.com/erraggy/filemerge/internal/eol"
	"github.com/erraggy/filemerge/merger"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type checkInput struct {
	Jobs          []jobInput `json:"jobs,omitempty"           jsonschema:"Inline merge jobs to check"`
	JobFile       string     `json:"job_file,omitempty"       jsonschema:"Path to a YAML or JSON job file with a merges list"`
	BaseDir       string     `json:"base_dir,omitempty"       jsonschema:"Directory relative paths are resolved against. Defaults to the job file's directory, or the server's working directory for inline jobs."`
	LineSeparator string     `json:"line_separator,omitempty" jsonschema:"Separator to report for jobs without rewrite_newlines"`
}

type plannedJob struct {
	Index           int      `json:"index"`
	Target          string   `json:"target"`
	Sources         []string `json:"sources"`
	RewriteNewlines string   `json:"rewrite_newlines,omitempty"`
}

type checkIssue struct {
	Job     int    `json:"job"`
	Kind    string `json:"kind"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

type checkOutput struct {
	Valid         bool         `json:"valid"`
	JobCount      int          `json:"job_count"`
	LineSeparator string       `json:"line_separator"`
	Jobs          []plannedJob `json:"jobs,omitempty"`
	IssueCount    int          `json:"issue_count"`
	Issues        []checkIssue `json:"issues,omitempty"`
	Summary       string       `json:"summary"`
}

func handleCheck(_ context.Context, _ *mcp.CallToolRequest, input checkInput) (*mcp.CallToolResult, checkOutput, error) {
	source := jobSource{Jobs: input.Jobs, JobFile: input.JobFile, BaseDir: input.BaseDir, LineSeparator: input.LineSeparator}
	jobs, separator, err := source.resolve()
	if err != nil {
		return errResult(err), checkOutput{}, nil
	}

	engine := merger.New(merger.EngineConfig{LineSeparator: separator, Concurrency: cfg.Concurrency})
	issues, err := engine.Check(jobs)
	if err != nil {
		return errResult(err), checkOutput{}, nil
	}

	output := checkOutput{
		Valid:         len(issues) == 0,
		JobCount:      len(jobs),
		LineSeparator: eol.Describe(separator),
		IssueCount:    len(issues),
	}
	for i, job := range jobs {
		pj := plannedJob{Index: i, Target: job.Target(), Sources: job.Sources()}
		if pj.Sources == nil {
			pj.Sources = []string{}
		}
		if seq, ok := job.RewriteNewline(); ok {
			pj.RewriteNewlines = eol.Describe(seq)
		}
		output.Jobs = append(output.Jobs, pj)
	}
	for _, issue := range issues {
		output.Issues = append(output.Issues, checkIssue{
			Job:     issue.Job,
			Kind:    issue.Kind.String(),
			Path:    issue.Path,
			Message: fmt.Sprintf("job %d would fail: %s", issue.Job, issue.Kind),
		})
	}

	if output.Valid {
		output.Summary = fmt.Sprintf("%d job(s) ready to merge", output.JobCount)
	} else {
		output.Summary = fmt.Sprintf("%d job(s) checked, %d problem(s) found", output.JobCount, output.IssueCount)
	}
	return nil, output, nil
}
