package mcpserver

import (
	"errors"
	"fmt"

	"github.com/erraggy/filemerge/internal/eol"
	"github.com/erraggy/filemerge/internal/options"
	"github.com/erraggy/filemerge/internal/pathutil"
	"github.com/erraggy/filemerge/jobfile"
	"github.com/erraggy/filemerge/merger"
)

// jobInput is one inline merge job.
type jobInput struct {
	Target          string   `json:"target"                     jsonschema:"Path of the file to write. Replaced if it exists."`
	Sources         []string `json:"sources,omitempty"          jsonschema:"Paths of the files to concatenate, in order. Empty produces an empty target."`
	RewriteNewlines string   `json:"rewrite_newlines,omitempty" jsonschema:"Normalize every line break in the sources to this sequence (lf or crlf or cr or native or an escape such as \\r\\n). Also used as the separator."`
}

// jobSource selects the jobs of a call: inline jobs or a job file.
type jobSource struct {
	Jobs          []jobInput
	JobFile       string
	BaseDir       string
	LineSeparator string
}

// resolve turns the input into merge jobs and the separator to run them with.
// Targets are made absolute and must not be symlinks.
func (s jobSource) resolve() ([]merger.Job, string, error) {
	hasInline := len(s.Jobs) > 0
	hasFile := s.JobFile != ""
	if err := options.ExactlyOne("provide jobs or job_file",
		"provide either jobs or job_file, not both", hasInline, hasFile); err != nil {
		return nil, "", err
	}

	var (
		jobs      []merger.Job
		separator string
	)
	if hasFile {
		var opts []jobfile.Option
		if s.BaseDir != "" {
			opts = append(opts, jobfile.WithBaseDir(s.BaseDir))
		}
		f, err := jobfile.Load(s.JobFile, opts...)
		if err != nil {
			return nil, "", err
		}
		jobs, separator = f.Jobs, f.LineSeparator
	} else {
		separator = cfg.LineSeparator
		for i, in := range s.Jobs {
			job, err := in.toJob(s.BaseDir)
			if err != nil {
				return nil, "", fmt.Errorf("jobs[%d]: %w", i, err)
			}
			jobs = append(jobs, job)
		}
	}

	for i, job := range jobs {
		target, err := pathutil.SanitizeOutputPath(job.Target())
		if err != nil {
			return nil, "", fmt.Errorf("job %d: %w", i, err)
		}
		var opts []merger.JobOption
		if seq, ok := job.RewriteNewline(); ok {
			opts = append(opts, merger.WithRewriteNewline(seq))
		}
		jobs[i] = merger.NewJob(target, job.Sources(), opts...)
	}

	if len(jobs) > cfg.MaxJobs {
		return nil, "", fmt.Errorf("too many jobs: got %d, maximum is %d; set FILEMERGE_MAX_JOBS to increase",
			len(jobs), cfg.MaxJobs)
	}

	if s.LineSeparator != "" {
		sep, err := eol.ParseSeparator(s.LineSeparator)
		if err != nil {
			return nil, "", fmt.Errorf("line_separator: %w", err)
		}
		separator = sep
	}
	return jobs, separator, nil
}

func (in jobInput) toJob(baseDir string) (merger.Job, error) {
	if in.Target == "" {
		return merger.Job{}, errors.New("target is required")
	}
	resolve := func(p string) string {
		if baseDir == "" {
			return p
		}
		return pathutil.Resolve(baseDir, p)
	}

	sources := make([]string, 0, len(in.Sources))
	for _, src := range in.Sources {
		sources = append(sources, resolve(src))
	}

	var opts []merger.JobOption
	if in.RewriteNewlines != "" {
		seq, err := eol.ParseSeparator(in.RewriteNewlines)
		if err != nil {
			return merger.Job{}, fmt.Errorf("rewrite_newlines: %w", err)
		}
		opts = append(opts, merger.WithRewriteNewline(seq))
	}
	return merger.NewJob(resolve(in.Target), sources, opts...), nil
}
