// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"go.yaml.in/yaml/v4"
)

// WriteFile creates dir/name, including missing parent directories, and
// returns its path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("creating fixture directory: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
	return p
}

// ReadFile returns the content of path as a string.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// JobFile mirrors the job file layout for building fixtures.
type JobFile struct {
	LineSeparator string  `yaml:"lineSeparator,omitempty"`
	Merges        []Merge `yaml:"merges"`
}

// Merge is one entry of JobFile.
type Merge struct {
	Target          string   `yaml:"target"`
	Sources         []string `yaml:"sources,omitempty"`
	RewriteNewlines string   `yaml:"rewriteNewlines,omitempty"`
}

// WriteJobFile marshals jf as YAML into dir/name and returns its path.
func WriteJobFile(t *testing.T, dir, name string, jf JobFile) string {
	t.Helper()
	data, err := yaml.Marshal(jf)
	if err != nil {
		t.Fatalf("marshaling job file: %v", err)
	}
	return WriteFile(t, dir, name, string(data))
}

// OpenFDs counts the file descriptors held by the test process. It skips the
// test on platforms without /proc/self/fd.
func OpenFDs(t *testing.T) int {
	t.Helper()
	if runtime.GOOS != "linux" {
		t.Skip("descriptor counting needs /proc/self/fd")
	}
	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Fatalf("listing descriptors: %v", err)
	}
	return len(entries)
}
