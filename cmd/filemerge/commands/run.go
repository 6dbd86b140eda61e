package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/erraggy/filemerge"
	"github.com/erraggy/filemerge/internal/cliutil"
	"github.com/erraggy/filemerge/internal/eol"
	"github.com/erraggy/filemerge/jobfile"
	"github.com/erraggy/filemerge/merger"
	"github.com/erraggy/filemerge/mergeerrors"
)

// RunFlags contains flags for the run command
type RunFlags struct {
	File            string
	Output          string
	RewriteNewlines string
	LineSeparator   string
	Jobs            int
	NoSync          bool
	Verbose         bool
	Quiet           bool
}

// SetupRunFlags creates and configures a FlagSet for the run command.
// Returns the FlagSet and a RunFlags struct with bound flag variables.
func SetupRunFlags() (*flag.FlagSet, *RunFlags) {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	flags := &RunFlags{}

	fs.StringVar(&flags.File, "f", "", "job file to run (default: "+DefaultJobFile+")")
	fs.StringVar(&flags.File, "file", "", "job file to run (default: "+DefaultJobFile+")")
	fs.StringVar(&flags.Output, "o", "", "target of a single inline job; sources are the remaining arguments")
	fs.StringVar(&flags.Output, "output", "", "target of a single inline job; sources are the remaining arguments")
	fs.StringVar(&flags.RewriteNewlines, "rewrite-newlines", "", "normalize line breaks of the inline job to lf, crlf, cr, native or an escape such as \\r\\n")
	fs.StringVar(&flags.LineSeparator, "line-separator", "", "separator between fragments (default: the job file's lineSeparator, else lf)")
	fs.IntVar(&flags.Jobs, "jobs", 1, "number of jobs to run at once")
	fs.BoolVar(&flags.NoSync, "no-sync", false, "don't fsync targets after every fragment")
	fs.BoolVar(&flags.Verbose, "v", false, "verbose mode: log every appended source")
	fs.BoolVar(&flags.Verbose, "verbose", false, "verbose mode: log every appended source")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only report errors")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only report errors")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: filemerge run [flags]\n")
		cliutil.Writef(fs.Output(), "       filemerge run [flags] -o <target> [source...]\n\n")
		cliutil.Writef(fs.Output(), "Concatenate source files into targets, as listed in a job file or given inline.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  filemerge run\n")
		cliutil.Writef(fs.Output(), "  filemerge run -f build/merge.yaml --jobs 4\n")
		cliutil.Writef(fs.Output(), "  filemerge run -o dist/app.properties defaults.properties prod.properties\n")
		cliutil.Writef(fs.Output(), "  filemerge run --rewrite-newlines crlf -o dist/README.txt head.txt body.txt\n")
		cliutil.Writef(fs.Output(), "\nNotes:\n")
		cliutil.Writef(fs.Output(), "  - Existing targets are replaced; missing parent directories are created\n")
		cliutil.Writef(fs.Output(), "  - The separator is written between sources, never after the last one\n")
		cliutil.Writef(fs.Output(), "  - The first failing job stops the run and its target is left partially written\n")
	}

	return fs, flags
}

// HandleRun executes the run command
func HandleRun(ctx context.Context, args []string) error {
	fs, flags := SetupRunFlags()
	fs.SetOutput(stderr)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if flags.Jobs < 1 {
		return fmt.Errorf("invalid --jobs %d: must be at least 1", flags.Jobs)
	}
	separator, hasSeparator, err := parseSeparatorFlag("line-separator", flags.LineSeparator)
	if err != nil {
		return err
	}

	var jobs []merger.Job
	if flags.Output != "" {
		if flags.File != "" {
			return errors.New("-f and -o cannot be combined")
		}
		job, err := inlineJob(flags, fs.Args())
		if err != nil {
			return err
		}
		jobs = []merger.Job{job}
		if !hasSeparator {
			separator = merger.DefaultLineSeparator
		}
	} else {
		if fs.NArg() > 0 {
			fs.Usage()
			return errors.New("source arguments require -o <target>")
		}
		if flags.RewriteNewlines != "" {
			return errors.New("--rewrite-newlines applies to inline jobs only; set rewriteNewlines in the job file")
		}
		path := flags.File
		if path == "" {
			path = DefaultJobFile
		}
		f, err := jobfile.Load(path)
		if err != nil {
			return err
		}
		jobs = f.Jobs
		if !hasSeparator {
			separator = f.LineSeparator
		}
	}

	logger := cliutil.NewLogger(stderr, cliutil.LogLevel(flags.Verbose, flags.Quiet))
	result, err := merger.RunWithOptions(ctx,
		merger.WithJobs(jobs...),
		merger.WithLineSeparator(separator),
		merger.WithConcurrency(flags.Jobs),
		merger.WithSync(!flags.NoSync),
		merger.WithLogger(merger.NewSlogAdapter(logger)),
	)
	if err != nil {
		var mergeErr *mergeerrors.MergeError
		if errors.As(err, &mergeErr) && mergeErr.Job >= 0 && mergeErr.Job < len(jobs) {
			return fmt.Errorf("merging %s: %w", jobs[mergeErr.Job].Target(), err)
		}
		return err
	}

	if !flags.Quiet {
		cliutil.Writef(stderr, "filemerge version: %s\n", filemerge.Version())
		cliutil.Writef(stderr, "Line separator: %s\n", eol.Describe(separator))
		for _, jr := range result.Jobs {
			cliutil.Writef(stderr, "  %s (%d sources, %d bytes)\n", jr.Target, jr.SourceCount, jr.BytesWritten)
		}
		cliutil.Writef(stderr, "Merged %d job(s), %d bytes in %v\n", result.JobCount(), result.TotalBytes, result.Duration)
	}
	return nil
}

func inlineJob(flags *RunFlags, sources []string) (merger.Job, error) {
	var opts []merger.JobOption
	seq, ok, err := parseSeparatorFlag("rewrite-newlines", flags.RewriteNewlines)
	if err != nil {
		return merger.Job{}, err
	}
	if ok {
		opts = append(opts, merger.WithRewriteNewline(seq))
	}

	if !flags.Quiet {
		if _, err := os.Stat(flags.Output); err == nil {
			cliutil.Writef(stderr, "Warning: target %s already exists and will be replaced\n", flags.Output)
		}
	}
	return merger.NewJob(flags.Output, sources, opts...), nil
}
