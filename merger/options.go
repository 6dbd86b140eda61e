package merger

import (
	"context"
	"fmt"

	"github.com/erraggy/filemerge/mergeerrors"
)

// Option is a function that configures a run
type Option func(*runConfig) error

// runConfig holds configuration for a run
type runConfig struct {
	jobs []Job

	// nil means use the value from the base configuration
	config        *EngineConfig
	lineSeparator *string
	concurrency   *int
	sync          *bool
	logger        Logger
}

// RunWithOptions merges jobs using functional options. It combines job
// selection and engine configuration in a single call.
//
// Example:
//
//	result, err := merger.RunWithOptions(ctx,
//	    merger.WithJobs(jobs...),
//	    merger.WithLineSeparator("\r\n"),
//	    merger.WithConcurrency(4),
//	)
func RunWithOptions(ctx context.Context, opts ...Option) (*Result, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("merger: invalid options: %w", err)
	}

	engineCfg := DefaultConfig()
	if cfg.config != nil {
		engineCfg = *cfg.config
	}
	if cfg.lineSeparator != nil {
		engineCfg.LineSeparator = *cfg.lineSeparator
	}
	if cfg.concurrency != nil {
		engineCfg.Concurrency = *cfg.concurrency
	}
	if cfg.sync != nil {
		engineCfg.Sync = *cfg.sync
	}
	if cfg.logger != nil {
		engineCfg.Logger = cfg.logger
	}

	return New(engineCfg).Run(ctx, cfg.jobs)
}

func applyOptions(opts ...Option) (*runConfig, error) {
	cfg := &runConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithJobs appends jobs to the run, preserving order across calls.
func WithJobs(jobs ...Job) Option {
	return func(cfg *runConfig) error {
		cfg.jobs = append(cfg.jobs, jobs...)
		return nil
	}
}

// WithConfig sets the base engine configuration. Options given alongside it
// override the matching fields regardless of order.
func WithConfig(config EngineConfig) Option {
	return func(cfg *runConfig) error {
		cfg.config = &config
		return nil
	}
}

// WithLineSeparator sets the separator written between fragments of jobs
// without a rewrite directive.
func WithLineSeparator(sep string) Option {
	return func(cfg *runConfig) error {
		if sep == "" {
			return &mergeerrors.ConfigError{Option: "line separator", Message: "must not be empty"}
		}
		cfg.lineSeparator = &sep
		return nil
	}
}

// WithConcurrency sets how many jobs may run at once.
func WithConcurrency(n int) Option {
	return func(cfg *runConfig) error {
		if n < 1 {
			return &mergeerrors.ConfigError{Option: "concurrency", Value: n, Message: "must be at least 1"}
		}
		cfg.concurrency = &n
		return nil
	}
}

// WithSync enables or disables the fsync after every fragment.
func WithSync(enabled bool) Option {
	return func(cfg *runConfig) error {
		cfg.sync = &enabled
		return nil
	}
}

// WithLogger sets the logger for the run.
func WithLogger(logger Logger) Option {
	return func(cfg *runConfig) error {
		if logger == nil {
			return &mergeerrors.ConfigError{Option: "logger", Message: "must not be nil"}
		}
		cfg.logger = logger
		return nil
	}
}
