package jobfile

import "os"

// Option configures how a job file is interpreted.
type Option func(*loadConfig)

type loadConfig struct {
	baseDir        string
	hasBaseDir     bool
	lookup         func(string) (string, bool)
	allowUndefined bool
}

func applyOptions(opts ...Option) *loadConfig {
	cfg := &loadConfig{lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithBaseDir resolves relative paths against dir instead of the job
// file's directory.
func WithBaseDir(dir string) Option {
	return func(cfg *loadConfig) {
		cfg.baseDir = dir
		cfg.hasBaseDir = true
	}
}

// WithLookup replaces os.LookupEnv for variable expansion.
func WithLookup(lookup func(string) (string, bool)) Option {
	return func(cfg *loadConfig) {
		if lookup != nil {
			cfg.lookup = lookup
		}
	}
}

// WithAllowUndefined expands undefined variables to the empty string
// instead of failing.
func WithAllowUndefined(allow bool) Option {
	return func(cfg *loadConfig) {
		cfg.allowUndefined = allow
	}
}
