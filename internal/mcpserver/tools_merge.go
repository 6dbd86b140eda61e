package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/erraggy/filemerge/internal/eol"
	"github.com/erraggy/filemerge/merger"
	"github.com/erraggy/filemerge/mergeerrors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type mergeInput struct {
	Jobs          []jobInput `json:"jobs,omitempty"           jsonschema:"Inline merge jobs, run in order"`
	JobFile       string     `json:"job_file,omitempty"       jsonschema:"Path to a YAML or JSON job file with a merges list"`
	BaseDir       string     `json:"base_dir,omitempty"       jsonschema:"Directory relative paths are resolved against. Defaults to the job file's directory, or the server's working directory for inline jobs."`
	LineSeparator string     `json:"line_separator,omitempty" jsonschema:"Separator between fragments of jobs without rewrite_newlines (lf or crlf or cr or native or an escape). Overrides the job file and FILEMERGE_LINE_SEPARATOR."`
	Concurrency   int        `json:"concurrency,omitempty"    jsonschema:"Number of jobs run at once. Jobs may then not read each other's targets. Defaults to FILEMERGE_CONCURRENCY."`
}

type mergedJob struct {
	Index        int    `json:"index"`
	Target       string `json:"target"`
	SourceCount  int    `json:"source_count"`
	BytesWritten int64  `json:"bytes_written"`
}

// mergeFailure identifies where a batch stopped.
type mergeFailure struct {
	Kind    string `json:"kind"`
	Job     int    `json:"job"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

type mergeOutput struct {
	JobCount      int           `json:"job_count"`
	Completed     int           `json:"completed"`
	TotalBytes    int64         `json:"total_bytes"`
	LineSeparator string        `json:"line_separator"`
	Jobs          []mergedJob   `json:"jobs,omitempty"`
	Failure       *mergeFailure `json:"failure,omitempty"`
	Summary       string        `json:"summary"`
}

func handleMerge(ctx context.Context, _ *mcp.CallToolRequest, input mergeInput) (*mcp.CallToolResult, mergeOutput, error) {
	if input.Concurrency < 0 {
		return errResult(fmt.Errorf("invalid concurrency: %d", input.Concurrency)), mergeOutput{}, nil
	}
	if input.Concurrency == 0 {
		input.Concurrency = cfg.Concurrency
	}

	source := jobSource{Jobs: input.Jobs, JobFile: input.JobFile, BaseDir: input.BaseDir, LineSeparator: input.LineSeparator}
	jobs, separator, err := source.resolve()
	if err != nil {
		return errResult(err), mergeOutput{}, nil
	}

	result, runErr := merger.RunWithOptions(ctx,
		merger.WithJobs(jobs...),
		merger.WithLineSeparator(separator),
		merger.WithConcurrency(input.Concurrency),
		merger.WithSync(cfg.Sync),
	)
	if result == nil {
		return errResult(runErr), mergeOutput{}, nil
	}

	output := mergeOutput{
		JobCount:      len(jobs),
		Completed:     result.JobCount(),
		TotalBytes:    result.TotalBytes,
		LineSeparator: eol.Describe(separator),
	}
	for _, jr := range result.Jobs {
		output.Jobs = append(output.Jobs, mergedJob{
			Index:        jr.Index,
			Target:       jr.Target,
			SourceCount:  jr.SourceCount,
			BytesWritten: jr.BytesWritten,
		})
	}

	if runErr != nil {
		output.Failure = describeFailure(runErr)
		output.Summary = fmt.Sprintf("Merge stopped: %d of %d jobs completed; job %d failed (%s)",
			output.Completed, output.JobCount, output.Failure.Job, output.Failure.Kind)
		return errResult(runErr), output, nil
	}

	output.Summary = fmt.Sprintf("Merged %d job(s), %d bytes written", output.Completed, output.TotalBytes)
	return nil, output, nil
}

func describeFailure(err error) *mergeFailure {
	f := &mergeFailure{Job: -1, Kind: mergeerrors.KindUnknown.String(), Message: sanitizeError(err)}
	var mergeErr *mergeerrors.MergeError
	if errors.As(err, &mergeErr) {
		f.Kind = mergeErr.Kind.String()
		f.Job = mergeErr.Job
		f.Stage = string(mergeErr.Stage)
	}
	return f
}
