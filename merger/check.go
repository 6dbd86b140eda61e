package merger

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/erraggy/filemerge/internal/pathutil"
	"github.com/erraggy/filemerge/mergeerrors"
)

// Issue is a problem Check expects Run to hit.
type Issue struct {
	// Job is the index of the affected job
	Job int `json:"job" yaml:"job"`
	// Kind is the failure Run would report
	Kind mergeerrors.Kind `json:"kind" yaml:"kind"`
	// Path is the offending file or directory
	Path string `json:"path" yaml:"path"`
}

// Check validates jobs the way Run does and then inspects the filesystem,
// without changing it, for failures Run would hit: sources that do not
// exist and are not produced by an earlier job, sources that are
// directories, targets that are directories, and target parents that are
// files.
//
// A non-nil error means the batch is invalid; issues are reported for
// batches that are valid but would not run to completion.
func (e *Engine) Check(jobs []Job) ([]Issue, error) {
	if err := e.validateJobs(jobs); err != nil {
		return nil, err
	}

	var issues []Issue
	produced := func(before int, path string) bool {
		for i := 0; i < before; i++ {
			if pathutil.SamePath(jobs[i].target, path) {
				return true
			}
		}
		return false
	}

	for i, job := range jobs {
		if info, err := os.Stat(job.target); err == nil && info.IsDir() {
			issues = append(issues, Issue{Job: i, Kind: mergeerrors.KindInvalidTarget, Path: job.target})
			continue
		}
		if kind, dir, ok := parentProblem(job.target); ok {
			issues = append(issues, Issue{Job: i, Kind: kind, Path: dir})
			continue
		}

		for _, src := range job.sources {
			if e.config.Concurrency < 2 && produced(i, src) {
				continue
			}
			info, err := os.Stat(src)
			switch {
			case errors.Is(err, fs.ErrNotExist):
				issues = append(issues, Issue{Job: i, Kind: mergeerrors.KindSourceNotFound, Path: src})
			case err != nil:
				issues = append(issues, Issue{Job: i, Kind: mergeerrors.KindIO, Path: src})
			case info.IsDir():
				issues = append(issues, Issue{Job: i, Kind: mergeerrors.KindInvalidSource, Path: src})
			}
		}
	}
	return issues, nil
}

// Validate runs the checks Run performs before touching any file.
func (e *Engine) Validate(jobs []Job) error {
	return e.validateJobs(jobs)
}

// parentProblem walks up from target's parent to the first existing path
// and reports when it is not a directory.
func parentProblem(target string) (mergeerrors.Kind, string, bool) {
	parentDir := filepath.Dir(target)
	dir := parentDir
	kind := mergeerrors.KindNotADirectory
	for {
		info, err := os.Stat(dir)
		if err == nil {
			if info.IsDir() {
				return 0, "", false
			}
			return kind, parentDir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return 0, "", false
		}
		dir = parent
		kind = mergeerrors.KindDirectoryNotCreatable
	}
}
