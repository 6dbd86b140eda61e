// Package jobfile loads merge jobs from a YAML or JSON job file.
//
// A job file lists merges in the order they run:
//
//	lineSeparator: crlf
//	merges:
//	  - target: build/application.properties
//	    sources:
//	      - src/main/config/${ENV}/application.properties
//	      - src/main/config/default/application.properties
//	  - target: build/NOTICE
//	    sources: [NOTICE.head, NOTICE.body]
//	    rewriteNewlines: lf
//
// lineSeparator is optional and applies to jobs without rewriteNewlines.
// Both accept the spellings understood by the command line: lf, crlf, cr,
// native, escapes such as "\r\n", or literal text.
//
// Relative paths are resolved against the directory of the job file, or the
// directory given with [WithBaseDir]. ${VAR} and $VAR references in paths are
// expanded from the environment; an undefined variable is an error unless
// [WithAllowUndefined] is set.
//
// Every problem with the file is reported as a *mergeerrors.ConfigError.
//
//	f, err := jobfile.Load("merge.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := merger.RunWithOptions(ctx,
//	    merger.WithJobs(f.Jobs...),
//	    merger.WithLineSeparator(f.LineSeparator),
//	)
package jobfile
