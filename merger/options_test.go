package merger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/filemerge/internal/testutil"
	"github.com/erraggy/filemerge/mergeerrors"
)

func TestRunWithOptions(t *testing.T) {
	t.Run("line separator", func(t *testing.T) {
		dir := t.TempDir()
		a := testutil.WriteFile(t, dir, "a.txt", "a")
		b := testutil.WriteFile(t, dir, "b.txt", "b")
		target := filepath.Join(dir, "out.txt")

		result, err := RunWithOptions(context.Background(),
			WithJobs(NewJob(target, []string{a, b})),
			WithLineSeparator("--"),
			WithSync(false),
		)
		require.NoError(t, err)
		assert.Equal(t, 1, result.JobCount())
		assert.Equal(t, "a--b", testutil.ReadFile(t, target))
	})

	t.Run("options override config regardless of order", func(t *testing.T) {
		dir := t.TempDir()
		a := testutil.WriteFile(t, dir, "a.txt", "a")
		b := testutil.WriteFile(t, dir, "b.txt", "b")
		target := filepath.Join(dir, "out.txt")

		cfg := testConfig()
		cfg.LineSeparator = "++"
		_, err := RunWithOptions(context.Background(),
			WithLineSeparator(";"),
			WithConfig(cfg),
			WithJobs(NewJob(target, []string{a, b})),
		)
		require.NoError(t, err)
		assert.Equal(t, "a;b", testutil.ReadFile(t, target))
	})

	t.Run("jobs accumulate across calls", func(t *testing.T) {
		dir := t.TempDir()
		a := testutil.WriteFile(t, dir, "a.txt", "a")
		first := filepath.Join(dir, "first.txt")
		second := filepath.Join(dir, "second.txt")

		result, err := RunWithOptions(context.Background(),
			WithJobs(NewJob(first, []string{a})),
			WithJobs(NewJob(second, []string{a})),
			WithConcurrency(2),
			WithSync(false),
			WithLogger(NopLogger{}),
		)
		require.NoError(t, err)
		assert.Equal(t, 2, result.JobCount())
		assert.FileExists(t, first)
		assert.FileExists(t, second)
	})
}

func TestOptionValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"empty line separator", WithLineSeparator("")},
		{"zero concurrency", WithConcurrency(0)},
		{"negative concurrency", WithConcurrency(-3)},
		{"nil logger", WithLogger(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := RunWithOptions(context.Background(), tt.opt)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, mergeerrors.ErrConfig)
		})
	}
}
