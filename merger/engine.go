package merger

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/erraggy/filemerge/internal/eol"
	"github.com/erraggy/filemerge/internal/pathutil"
	"github.com/erraggy/filemerge/mergeerrors"
	"golang.org/x/sync/errgroup"
)

// DefaultLineSeparator is the separator written between fragments when
// neither the engine configuration nor the job says otherwise.
const DefaultLineSeparator = eol.LF

// EngineConfig configures how jobs are executed
type EngineConfig struct {
	// LineSeparator is written between consecutive fragments of jobs that
	// have no rewrite directive. Empty means DefaultLineSeparator.
	LineSeparator string
	// Concurrency is the number of jobs run at once. Values below 2 run jobs
	// strictly in order. Sources within a job are always appended in order.
	Concurrency int
	// Sync fsyncs the target after every fragment, so a crash after source N
	// leaves exactly N fragments on disk.
	Sync bool
	// Logger receives progress and failure logs. Nil means NopLogger.
	Logger Logger
}

// DefaultConfig returns the reference configuration: "\n" separators,
// sequential execution, fsync after each fragment, no logging.
func DefaultConfig() EngineConfig {
	return EngineConfig{
		LineSeparator: DefaultLineSeparator,
		Concurrency:   1,
		Sync:          true,
		Logger:        NopLogger{},
	}
}

// Engine executes merge jobs.
//
// Concurrency: an Engine keeps no state between runs and may be shared by
// goroutines, as long as concurrent runs do not write the same targets.
type Engine struct {
	config EngineConfig
	logger Logger

	createTarget func(path string) (targetHandle, error)
	openSource   func(path string) (io.ReadCloser, error)
}

// New creates a new Engine with the provided configuration
func New(config EngineConfig) *Engine {
	if config.LineSeparator == "" {
		config.LineSeparator = DefaultLineSeparator
	}
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}
	if config.Logger == nil {
		config.Logger = NopLogger{}
	}
	return &Engine{
		config:       config,
		logger:       config.Logger,
		createTarget: createTarget,
		openSource:   openSource,
	}
}

// Config returns the effective configuration.
func (e *Engine) Config() EngineConfig {
	return e.config
}

// Run validates every job, then merges them in list order.
//
// The run is fail-fast: the first failing job stops the batch, and its
// *mergeerrors.MergeError is returned together with a Result listing the jobs
// that completed. The failing job's partial target is left on disk. The
// context is checked between jobs; a cancelled run returns the context error.
func (e *Engine) Run(ctx context.Context, jobs []Job) (*Result, error) {
	start := time.Now()
	result := &Result{}

	if err := e.validateJobs(jobs); err != nil {
		e.logger.Error("merge jobs rejected", "error", err)
		return result, err
	}

	var err error
	if e.config.Concurrency > 1 && len(jobs) > 1 {
		err = e.runParallel(ctx, jobs, result)
	} else {
		err = e.runSequential(ctx, jobs, result)
	}
	result.Duration = time.Since(start)
	return result, err
}

func (e *Engine) runSequential(ctx context.Context, jobs []Job, result *Result) error {
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("merger: run stopped before job %d: %w", i, err)
		}
		jr, err := e.runJob(i, job)
		if err != nil {
			e.logger.Error("merge job failed", "job", i, "target", job.target, "error", err)
			return err
		}
		result.add(jr)
	}
	return nil
}

// runParallel runs up to Concurrency jobs at once. A job is skipped once a
// job with a lower index has failed, and every job below the lowest failure
// still runs, so the reported error and the listed jobs are the ones a
// sequential run reports. Jobs above the failure that had already finished
// are left on disk but not listed.
func (e *Engine) runParallel(ctx context.Context, jobs []Job, result *Result) error {
	var g errgroup.Group
	g.SetLimit(e.config.Concurrency)

	var lowest atomic.Int64
	lowest.Store(int64(len(jobs)))
	fail := func(i int) {
		for {
			cur := lowest.Load()
			if int64(i) >= cur || lowest.CompareAndSwap(cur, int64(i)) {
				return
			}
		}
	}

	done := make([]*JobResult, len(jobs))
	errs := make([]error, len(jobs))
	for i, job := range jobs {
		g.Go(func() error {
			if ctx.Err() != nil || int64(i) > lowest.Load() {
				return nil
			}
			jr, err := e.runJob(i, job)
			if err != nil {
				e.logger.Error("merge job failed", "job", i, "target", job.target, "error", err)
				errs[i] = err
				fail(i)
				return nil
			}
			done[i] = &jr
			return nil
		})
	}
	_ = g.Wait()

	failed := int(lowest.Load())
	for _, jr := range done[:failed] {
		if jr != nil {
			result.add(*jr)
		}
	}
	if failed < len(jobs) {
		return errs[failed]
	}
	if err := ctx.Err(); err != nil && len(result.Jobs) < len(jobs) {
		return fmt.Errorf("merger: run stopped after %d of %d jobs: %w", len(result.Jobs), len(jobs), err)
	}
	return nil
}

// validateJobs rejects malformed jobs before any file is touched.
func (e *Engine) validateJobs(jobs []Job) error {
	invalid := func(index int, path, msg string) error {
		return &mergeerrors.MergeError{
			Kind:    mergeerrors.KindInvalidJob,
			Job:     index,
			Stage:   mergeerrors.StageValidate,
			Path:    path,
			Message: msg,
		}
	}

	for i, job := range jobs {
		if job.target == "" {
			return invalid(i, "", "target is empty")
		}
		if strings.HasSuffix(job.target, "/") || strings.HasSuffix(job.target, string(filepath.Separator)) {
			return invalid(i, job.target, "target ends in a path separator")
		}
		if job.hasRewrite {
			if job.rewrite == "" {
				return invalid(i, job.target, "rewrite newline sequence is empty")
			}
			if len(job.rewrite) > eol.MaxSequenceLen {
				return invalid(i, job.target, fmt.Sprintf("rewrite newline sequence longer than %d bytes", eol.MaxSequenceLen))
			}
		}
		for _, src := range job.sources {
			if pathutil.SamePath(job.target, src) {
				return invalid(i, src, "target is also listed as a source")
			}
		}
	}

	if e.config.Concurrency < 2 {
		return nil
	}
	// Jobs running side by side must not write a common target or read
	// another job's target.
	for i := range jobs {
		for j := range jobs {
			if i == j {
				continue
			}
			if j > i && pathutil.SamePath(jobs[i].target, jobs[j].target) {
				return invalid(j, jobs[j].target, fmt.Sprintf("target is also written by job %d", i))
			}
			for _, src := range jobs[j].sources {
				if pathutil.SamePath(jobs[i].target, src) {
					return invalid(j, src, fmt.Sprintf("source is the target of job %d, which cannot run concurrently", i))
				}
			}
		}
	}
	return nil
}
