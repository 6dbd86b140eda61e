package merger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/filemerge/internal/testutil"
	"github.com/erraggy/filemerge/mergeerrors"
)

func TestCheck(t *testing.T) {
	t.Run("clean batch", func(t *testing.T) {
		dir := t.TempDir()
		a := testutil.WriteFile(t, dir, "a.txt", "a")
		first := filepath.Join(dir, "out", "first.txt")

		issues, err := New(testConfig()).Check([]Job{
			NewJob(first, []string{a}),
			NewJob(filepath.Join(dir, "second.txt"), []string{first, a}),
		})
		require.NoError(t, err)
		assert.Empty(t, issues)
		assert.NoFileExists(t, first)
	})

	t.Run("problems are listed per job", func(t *testing.T) {
		dir := t.TempDir()
		a := testutil.WriteFile(t, dir, "a.txt", "a")
		blocker := testutil.WriteFile(t, dir, "blocker", "file")
		missing := filepath.Join(dir, "missing.txt")
		targetDir := filepath.Join(dir, "target-dir")
		require.NoError(t, os.Mkdir(targetDir, 0o755))

		issues, err := New(testConfig()).Check([]Job{
			NewJob(filepath.Join(dir, "ok.txt"), []string{a, missing, dir}),
			NewJob(targetDir, []string{a}),
			NewJob(filepath.Join(blocker, "out.txt"), []string{a}),
			NewJob(filepath.Join(blocker, "sub", "out.txt"), []string{a}),
		})
		require.NoError(t, err)
		assert.Equal(t, []Issue{
			{Job: 0, Kind: mergeerrors.KindSourceNotFound, Path: missing},
			{Job: 0, Kind: mergeerrors.KindInvalidSource, Path: dir},
			{Job: 1, Kind: mergeerrors.KindInvalidTarget, Path: targetDir},
			{Job: 2, Kind: mergeerrors.KindNotADirectory, Path: blocker},
			{Job: 3, Kind: mergeerrors.KindDirectoryNotCreatable, Path: filepath.Join(blocker, "sub")},
		}, issues)
	})

	t.Run("parallel runs cannot rely on earlier targets", func(t *testing.T) {
		dir := t.TempDir()
		a := testutil.WriteFile(t, dir, "a.txt", "a")
		missing := filepath.Join(dir, "missing.txt")
		cfg := testConfig()
		cfg.Concurrency = 2

		issues, err := New(cfg).Check([]Job{
			NewJob(filepath.Join(dir, "one.txt"), []string{a}),
			NewJob(filepath.Join(dir, "two.txt"), []string{missing}),
		})
		require.NoError(t, err)
		require.Len(t, issues, 1)
		assert.Equal(t, 1, issues[0].Job)
	})

	t.Run("invalid batch", func(t *testing.T) {
		_, err := New(testConfig()).Check([]Job{NewJob("", nil)})
		assert.ErrorIs(t, err, mergeerrors.ErrInvalidJob)
	})
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.txt")

	assert.NoError(t, New(testConfig()).Validate([]Job{NewJob(target, []string{"a"})}))
	assert.ErrorIs(t, New(testConfig()).Validate([]Job{NewJob(target, []string{target})}), mergeerrors.ErrInvalidJob)
	assert.NoFileExists(t, target)
}
