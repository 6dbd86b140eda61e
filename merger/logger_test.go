package merger

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/filemerge/internal/testutil"
)

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l.Debug("x")
	l.Info("x", "k", 1)
	l.Warn("x")
	l.Error("x")
	assert.Equal(t, NopLogger{}, l.With("k", "v"))
}

func TestSlogAdapter(t *testing.T) {
	t.Run("nil uses default", func(t *testing.T) {
		assert.NotNil(t, NewSlogAdapter(nil).logger)
	})

	t.Run("levels and attributes", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

		l.With("job", 7).Warn("careful", "path", "a.txt")
		l.Error("failed")

		out := buf.String()
		assert.Contains(t, out, "level=WARN")
		assert.Contains(t, out, "msg=careful")
		assert.Contains(t, out, "job=7")
		assert.Contains(t, out, "path=a.txt")
		assert.Contains(t, out, "level=ERROR")
	})
}

func TestRunLogsProgress(t *testing.T) {
	dir := t.TempDir()
	a := testutil.WriteFile(t, dir, "a.txt", "alpha")
	target := filepath.Join(dir, "out.txt")

	var buf bytes.Buffer
	cfg := testConfig()
	cfg.Logger = NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	_, err := run(t, cfg, NewJob(target, []string{a}))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "msg=\"appended source\"")
	assert.Contains(t, out, "msg=merged")
	assert.Contains(t, out, "bytes=5")
	assert.Contains(t, out, "target="+target)
}
