package commands

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/erraggy/filemerge/internal/cliutil"
	"github.com/erraggy/filemerge/internal/eol"
	"github.com/erraggy/filemerge/jobfile"
	"github.com/erraggy/filemerge/merger"
)

// CheckFlags contains flags for the check command
type CheckFlags struct {
	File          string
	Format        string
	LineSeparator string
	Jobs          int
}

// CheckReport is the structured output of the check command.
type CheckReport struct {
	JobFile       string         `json:"job_file" yaml:"job_file"`
	LineSeparator string         `json:"line_separator" yaml:"line_separator"`
	Valid         bool           `json:"valid" yaml:"valid"`
	Jobs          []PlannedJob   `json:"jobs" yaml:"jobs"`
	Issues        []merger.Issue `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// PlannedJob describes one job of a checked job file.
type PlannedJob struct {
	Index           int      `json:"index" yaml:"index"`
	Target          string   `json:"target" yaml:"target"`
	Sources         []string `json:"sources" yaml:"sources"`
	RewriteNewlines string   `json:"rewrite_newlines,omitempty" yaml:"rewrite_newlines,omitempty"`
}

// SetupCheckFlags creates and configures a FlagSet for the check command.
// Returns the FlagSet and a CheckFlags struct with bound flag variables.
func SetupCheckFlags() (*flag.FlagSet, *CheckFlags) {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	flags := &CheckFlags{}

	fs.StringVar(&flags.File, "f", DefaultJobFile, "job file to check")
	fs.StringVar(&flags.File, "file", DefaultJobFile, "job file to check")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.StringVar(&flags.LineSeparator, "line-separator", "", "separator to report instead of the job file's lineSeparator")
	fs.IntVar(&flags.Jobs, "jobs", 1, "check as if this many jobs run at once")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: filemerge check [flags]\n\n")
		cliutil.Writef(fs.Output(), "Load a job file and report what run would do, without writing anything.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  filemerge check\n")
		cliutil.Writef(fs.Output(), "  filemerge check -f build/merge.yaml --format json\n")
		cliutil.Writef(fs.Output(), "\nExit Codes:\n")
		cliutil.Writef(fs.Output(), "  0    All jobs are expected to succeed\n")
		cliutil.Writef(fs.Output(), "  1    The job file is invalid or a job would fail\n")
	}

	return fs, flags
}

// HandleCheck executes the check command
func HandleCheck(args []string) error {
	fs, flags := SetupCheckFlags()
	fs.SetOutput(stderr)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return fmt.Errorf("check command takes no arguments, got %d", fs.NArg())
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}
	if flags.Jobs < 1 {
		return fmt.Errorf("invalid --jobs %d: must be at least 1", flags.Jobs)
	}
	separator, hasSeparator, err := parseSeparatorFlag("line-separator", flags.LineSeparator)
	if err != nil {
		return err
	}

	f, err := jobfile.Load(flags.File)
	if err != nil {
		return err
	}
	if !hasSeparator {
		separator = f.LineSeparator
	}

	engine := merger.New(merger.EngineConfig{LineSeparator: separator, Concurrency: flags.Jobs})
	issues, err := engine.Check(f.Jobs)
	if err != nil {
		return err
	}

	report := buildCheckReport(f, separator, issues)
	if flags.Format == FormatText {
		writeCheckText(report)
	} else if err := OutputStructured(stdout, report, flags.Format); err != nil {
		return err
	}

	if !report.Valid {
		return fmt.Errorf("check found %d problem(s)", len(report.Issues))
	}
	return nil
}

func buildCheckReport(f *jobfile.File, separator string, issues []merger.Issue) CheckReport {
	report := CheckReport{
		JobFile:       f.Path,
		LineSeparator: eol.Describe(separator),
		Valid:         len(issues) == 0,
		Jobs:          make([]PlannedJob, 0, len(f.Jobs)),
		Issues:        issues,
	}
	for i, job := range f.Jobs {
		pj := PlannedJob{Index: i, Target: job.Target(), Sources: job.Sources()}
		if pj.Sources == nil {
			pj.Sources = []string{}
		}
		if seq, ok := job.RewriteNewline(); ok {
			pj.RewriteNewlines = eol.Describe(seq)
		}
		report.Jobs = append(report.Jobs, pj)
	}
	return report
}

func writeCheckText(report CheckReport) {
	cliutil.Writef(stdout, "Job file: %s\n", report.JobFile)
	cliutil.Writef(stdout, "Line separator: %s\n", report.LineSeparator)
	cliutil.Writef(stdout, "Jobs: %d\n\n", len(report.Jobs))

	for _, job := range report.Jobs {
		line := fmt.Sprintf("[%d] %s", job.Index, job.Target)
		if job.RewriteNewlines != "" {
			line += " (rewrite newlines: " + job.RewriteNewlines + ")"
		}
		cliutil.Writef(stdout, "%s\n", line)
		if len(job.Sources) == 0 {
			cliutil.Writef(stdout, "      (no sources: target will be empty)\n")
		}
		for _, src := range job.Sources {
			cliutil.Writef(stdout, "      <- %s\n", src)
		}
	}

	if report.Valid {
		cliutil.Writef(stdout, "\n%d job(s) ready to merge\n", len(report.Jobs))
		return
	}
	var b strings.Builder
	for _, issue := range report.Issues {
		fmt.Fprintf(&b, "  - job %d: %s: %s\n", issue.Job, issue.Kind, issue.Path)
	}
	cliutil.Writef(stdout, "\nProblems (%d):\n%s", len(report.Issues), b.String())
}
