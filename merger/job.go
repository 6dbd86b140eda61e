package merger

import (
	"fmt"
	"slices"
	"strings"

	"github.com/erraggy/filemerge/internal/eol"
)

// Job describes one merge: the target file and the ordered sources whose
// contents are concatenated into it.
//
// A Job is an immutable value. NewJob copies the sources slice and Sources
// returns a copy, so neither the caller nor the engine can change a job once
// it is built.
type Job struct {
	target     string
	sources    []string
	rewrite    string
	hasRewrite bool
}

// JobOption configures optional parts of a Job.
type JobOption func(*Job)

// WithRewriteNewline normalizes every line break inside the sources to seq
// and uses seq as the separator between fragments.
func WithRewriteNewline(seq string) JobOption {
	return func(j *Job) {
		j.rewrite = seq
		j.hasRewrite = true
	}
}

// NewJob returns a job that concatenates sources, in order, into target.
// Duplicate sources are kept. An empty source list produces an empty target.
func NewJob(target string, sources []string, opts ...JobOption) Job {
	j := Job{
		target:  target,
		sources: slices.Clone(sources),
	}
	for _, opt := range opts {
		opt(&j)
	}
	return j
}

// Target returns the path of the file the job writes.
func (j Job) Target() string {
	return j.target
}

// Sources returns the source paths in concatenation order.
func (j Job) Sources() []string {
	return slices.Clone(j.sources)
}

// SourceCount returns the number of sources.
func (j Job) SourceCount() int {
	return len(j.sources)
}

// RewriteNewline returns the line-ending directive and whether one is set.
func (j Job) RewriteNewline() (string, bool) {
	return j.rewrite, j.hasRewrite
}

// String returns a compact description for logs and debugging.
func (j Job) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Job[target: %s][sources: %s]", j.target, strings.Join(j.sources, ", "))
	if j.hasRewrite {
		fmt.Fprintf(&b, "[rewrite: %s]", eol.Describe(j.rewrite))
	}
	return b.String()
}
