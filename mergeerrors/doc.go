// Package mergeerrors provides structured error types for filemerge.
//
// Import path: github.com/erraggy/filemerge/mergeerrors
//
// Every failure the merge engine reports is a [*MergeError] carrying the
// failure [Kind], the index of the job that failed, the [Stage] it failed in,
// the offending path, and the underlying cause. Job file problems are
// reported as [*ConfigError].
//
// # Sentinel Errors
//
// Each kind has a sentinel for use with errors.Is():
//
//   - [ErrInvalidJob]: a job is malformed (empty target, target listed as a source)
//   - [ErrInvalidTarget], [ErrInvalidSource]: a directory where a file was expected
//   - [ErrTargetNotRemovable], [ErrDirectoryNotCreatable], [ErrNotADirectory],
//     [ErrTargetNotCreatable]: target preparation failures
//   - [ErrSourceNotFound]: a source does not exist
//   - [ErrIO]: a stream could not be opened
//   - [ErrCopy]: a read or write failed while appending
//   - [ErrClose]: a file could not be closed
//
// [ErrMerge] matches any [*MergeError]; [ErrConfig] matches any [*ConfigError].
//
// # Usage Examples
//
//	result, err := engine.Run(ctx, jobs)
//	if errors.Is(err, mergeerrors.ErrSourceNotFound) {
//	    // a fragment is missing
//	}
//
//	var mergeErr *mergeerrors.MergeError
//	if errors.As(err, &mergeErr) {
//	    fmt.Printf("job %d failed at %s on %s\n", mergeErr.Job, mergeErr.Stage, mergeErr.Path)
//	}
//
// # Error Chaining
//
// The Cause field is returned by Unwrap, so the operating system error stays
// reachable:
//
//	if errors.Is(err, fs.ErrPermission) {
//	    // permission problem somewhere in the chain
//	}
package mergeerrors
