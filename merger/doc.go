// Package merger concatenates ordered source files into target files.
//
// A [Job] names one target and the sources to copy into it. The [Engine]
// runs a batch of jobs in order and, for each one:
//
//  1. prepares the target: an existing file is removed, a missing parent
//     directory is created, and a new empty file is opened for writing;
//  2. opens each source in turn and appends its bytes unchanged;
//  3. writes a line separator between consecutive fragments, never after
//     the last one;
//  4. flushes (and by default fsyncs) after every fragment;
//  5. closes every handle it opened, on success and on failure.
//
// # Quick Start
//
//	jobs := []merger.Job{
//		merger.NewJob("build/app.properties", []string{
//			"config/prod/app.properties",
//			"config/default/app.properties",
//		}),
//	}
//	result, err := merger.New(merger.DefaultConfig()).Run(ctx, jobs)
//
// Or with functional options:
//
//	result, err := merger.RunWithOptions(ctx,
//		merger.WithJobs(jobs...),
//		merger.WithLineSeparator("\r\n"),
//	)
//
// # Separators and Newline Rewriting
//
// The separator comes from [EngineConfig.LineSeparator] ("\n" by default).
// A job built with [WithRewriteNewline] uses its own sequence instead, both
// as the separator and as the replacement for every line break inside its
// sources: "\r\n", "\n" and a lone "\r" each become the sequence once.
//
// # Errors
//
// Failures are *mergeerrors.MergeError values carrying the kind, job index,
// stage, path and cause. Jobs are validated before anything is written: an
// empty target, or a target that is also one of its own sources, fails the
// run with mergeerrors.KindInvalidJob. After that the run is fail-fast: the
// first failing job stops the batch and its partial target stays on disk.
//
// # Concurrency
//
// Jobs run one after another unless [EngineConfig.Concurrency] is above one,
// in which case independent jobs run in parallel. Sources within a job are
// always appended in order. In parallel mode jobs may not share a target or
// read another job's target, and the failure with the lowest job index is
// reported.
package merger
