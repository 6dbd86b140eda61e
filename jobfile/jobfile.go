package jobfile

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/filemerge/internal/eol"
	"github.com/erraggy/filemerge/internal/pathutil"
	"github.com/erraggy/filemerge/merger"
	"github.com/erraggy/filemerge/mergeerrors"
)

// File is a parsed job file.
type File struct {
	// Path is the file the jobs were loaded from; empty for Parse.
	Path string
	// LineSeparator is the separator for jobs without a rewrite directive.
	// It is merger.DefaultLineSeparator when the file does not set one.
	LineSeparator string
	// Jobs are the merges in file order.
	Jobs []merger.Job
}

// document mirrors the YAML layout.
type document struct {
	LineSeparator *string `yaml:"lineSeparator"`
	Merges        []entry `yaml:"merges"`
}

type entry struct {
	Target          string   `yaml:"target"`
	Sources         []string `yaml:"sources"`
	RewriteNewlines *string  `yaml:"rewriteNewlines"`
}

var (
	documentKeys = []string{"lineSeparator", "merges"}
	entryKeys    = []string{"target", "sources", "rewriteNewlines"}
)

// Load reads and parses the job file at path. Relative paths inside it are
// resolved against the file's directory unless WithBaseDir says otherwise.
func Load(path string, opts ...Option) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &mergeerrors.ConfigError{Path: path, Message: "cannot read job file", Cause: err}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	cfg := applyOptions(opts...)
	if !cfg.hasBaseDir {
		cfg.baseDir = filepath.Dir(abs)
	}

	f, err := parse(data, path, cfg)
	if err != nil {
		return nil, err
	}
	f.Path = path
	return f, nil
}

// Parse parses job file content. Without WithBaseDir, relative paths are
// kept relative to the working directory.
func Parse(data []byte, opts ...Option) (*File, error) {
	return parse(data, "", applyOptions(opts...))
}

func parse(data []byte, path string, cfg *loadConfig) (*File, error) {
	configErr := func(option string, value any, msg string, cause error) error {
		return &mergeerrors.ConfigError{Path: path, Option: option, Value: value, Message: msg, Cause: cause}
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, configErr("", nil, "invalid YAML", err)
	}
	if err := checkKeys(raw, documentKeys, ""); err != nil {
		return nil, configErr(err.option, nil, err.msg, nil)
	}
	if v, ok := raw["merges"]; !ok || v == nil {
		return nil, configErr("merges", nil, "is required", nil)
	}
	if v, ok := raw["lineSeparator"]; ok && v == nil {
		return nil, configErr("lineSeparator", nil, "must not be empty", nil)
	}
	if merges, ok := raw["merges"].([]any); ok {
		for i, m := range merges {
			prefix := fmt.Sprintf("merges[%d]", i)
			fields, ok := m.(map[string]any)
			if !ok {
				return nil, configErr(prefix, nil, "must be a mapping", nil)
			}
			if err := checkKeys(fields, entryKeys, prefix+"."); err != nil {
				return nil, configErr(err.option, nil, err.msg, nil)
			}
			if v, ok := fields["rewriteNewlines"]; ok && v == nil {
				return nil, configErr(prefix+".rewriteNewlines", nil, "must not be empty", nil)
			}
		}
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, configErr("", nil, "invalid job file", err)
	}

	f := &File{Path: path, LineSeparator: merger.DefaultLineSeparator}
	if doc.LineSeparator != nil {
		sep, err := eol.ParseSeparator(*doc.LineSeparator)
		if err != nil {
			return nil, configErr("lineSeparator", *doc.LineSeparator, "invalid separator", err)
		}
		f.LineSeparator = sep
	}

	exp := &expander{lookup: cfg.lookup, allowUndefined: cfg.allowUndefined}
	for i, e := range doc.Merges {
		prefix := fmt.Sprintf("merges[%d]", i)
		if e.Target == "" {
			return nil, configErr(prefix+".target", nil, "is required", nil)
		}
		target, err := exp.expand(e.Target)
		if err != nil {
			return nil, configErr(prefix+".target", e.Target, "cannot expand", err)
		}
		if target == "" {
			return nil, configErr(prefix+".target", e.Target, "expands to an empty path", nil)
		}

		sources := make([]string, 0, len(e.Sources))
		for n, src := range e.Sources {
			option := fmt.Sprintf("%s.sources[%d]", prefix, n)
			if src == "" {
				return nil, configErr(option, nil, "must not be empty", nil)
			}
			expanded, err := exp.expand(src)
			if err != nil {
				return nil, configErr(option, src, "cannot expand", err)
			}
			if expanded == "" {
				return nil, configErr(option, src, "expands to an empty path", nil)
			}
			sources = append(sources, pathutil.Resolve(cfg.baseDir, expanded))
		}

		var jobOpts []merger.JobOption
		if e.RewriteNewlines != nil {
			seq, err := eol.ParseSeparator(*e.RewriteNewlines)
			if err != nil {
				return nil, configErr(prefix+".rewriteNewlines", *e.RewriteNewlines, "invalid newline sequence", err)
			}
			jobOpts = append(jobOpts, merger.WithRewriteNewline(seq))
		}

		f.Jobs = append(f.Jobs, merger.NewJob(pathutil.Resolve(cfg.baseDir, target), sources, jobOpts...))
	}
	return f, nil
}

type keyError struct {
	option string
	msg    string
}

// checkKeys reports the first key of fields that is not in allowed, in
// sorted order so the error is stable.
func checkKeys(fields map[string]any, allowed []string, prefix string) *keyError {
	var unknown []string
	for k := range fields {
		if !slices.Contains(allowed, k) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	slices.Sort(unknown)
	return &keyError{
		option: prefix + unknown[0],
		msg:    "unknown key (expected one of " + strings.Join(allowed, ", ") + ")",
	}
}
