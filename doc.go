// Package filemerge concatenates ordered lists of source files into target files.
//
// It is meant to run as a step inside a larger build: a job file lists merge
// jobs, each naming one target and the sources to copy into it, and the engine
// writes every target in order, inserting a line separator between fragments
// and optionally normalizing line endings on the way.
//
// # Packages
//
//   - merger: the merge engine and the Job value it consumes
//   - jobfile: loads merge jobs from a YAML or JSON job file
//   - mergeerrors: structured error kinds for errors.Is / errors.As
//
// # Quick Start
//
// Merge two files from Go code:
//
//	import "github.com/erraggy/filemerge/merger"
//
//	jobs := []merger.Job{
//		merger.NewJob("build/app.properties", []string{
//			"config/prod/app.properties",
//			"config/default/app.properties",
//		}),
//	}
//	result, err := merger.New(merger.DefaultConfig()).Run(ctx, jobs)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("wrote %d bytes\n", result.TotalBytes)
//
// Run every job from a job file:
//
//	import "github.com/erraggy/filemerge/jobfile"
//
//	file, err := jobfile.Load("merge.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	_, err = merger.RunWithOptions(ctx,
//		merger.WithJobs(file.Jobs...),
//		merger.WithLineSeparator(file.LineSeparator),
//	)
//
// # Command Line
//
// The filemerge command wraps the same packages:
//
//	filemerge run -f merge.yaml
//	filemerge run -o build/app.properties a.properties b.properties
//	filemerge check --format json -f merge.yaml
//	filemerge mcp
package filemerge
