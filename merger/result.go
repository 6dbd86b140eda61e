package merger

import "time"

// JobResult records one successfully merged job.
type JobResult struct {
	// Index is the position of the job in the batch
	Index int `json:"index" yaml:"index"`
	// Target is the path that was written
	Target string `json:"target" yaml:"target"`
	// SourceCount is the number of fragments concatenated
	SourceCount int `json:"source_count" yaml:"source_count"`
	// BytesWritten counts fragment bytes and separators
	BytesWritten int64 `json:"bytes_written" yaml:"bytes_written"`
	// Duration is the wall time spent on the job
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Result contains the outcome of a run.
//
// On failure Run still returns the Result, holding only the jobs that
// completed before the failing one.
type Result struct {
	// Jobs lists completed jobs ordered by index
	Jobs []JobResult `json:"jobs" yaml:"jobs"`
	// TotalBytes sums BytesWritten over Jobs
	TotalBytes int64 `json:"total_bytes" yaml:"total_bytes"`
	// Duration is the wall time of the whole run
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// JobCount returns the number of completed jobs.
func (r *Result) JobCount() int {
	return len(r.Jobs)
}

func (r *Result) add(jr JobResult) {
	r.Jobs = append(r.Jobs, jr)
	r.TotalBytes += jr.BytesWritten
}
