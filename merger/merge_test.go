package merger

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/filemerge/internal/testutil"
	"github.com/erraggy/filemerge/mergeerrors"
)

func newTestTarget(t *testing.T, flag int) *targetFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	f, err := os.OpenFile(path, flag, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return &targetFile{file: f, buf: bufio.NewWriter(f), path: path}
}

func TestAppendStream(t *testing.T) {
	e := New(testConfig())

	t.Run("separator only between fragments", func(t *testing.T) {
		out := newTestTarget(t, os.O_WRONLY)
		sep := []byte("|")

		require.NoError(t, e.appendStream(0, strings.NewReader("a"), out, fragment{path: "a", separator: sep}))
		require.NoError(t, e.appendStream(0, strings.NewReader("b"), out, fragment{path: "b", separator: sep, isLast: true}))

		assert.Equal(t, int64(3), out.written)
		assert.Equal(t, "a|b", testutil.ReadFile(t, out.path))
	})

	t.Run("rewrite handles line breaks split across reads", func(t *testing.T) {
		out := newTestTarget(t, os.O_WRONLY)
		in := iotest.OneByteReader(strings.NewReader("x\r\ny\rz\n"))

		require.NoError(t, e.appendStream(0, in, out, fragment{path: "x", rewrite: "\n", isLast: true}))
		assert.Equal(t, "x\ny\nz\n", testutil.ReadFile(t, out.path))
	})

	t.Run("read failure is a copy error", func(t *testing.T) {
		out := newTestTarget(t, os.O_WRONLY)
		boom := errors.New("boom")

		err := e.appendStream(2, iotest.ErrReader(boom), out, fragment{path: "src.txt"})
		require.Error(t, err)
		assert.ErrorIs(t, err, mergeerrors.ErrCopy)
		assert.ErrorIs(t, err, boom)

		var mergeErr *mergeerrors.MergeError
		require.ErrorAs(t, err, &mergeErr)
		assert.Equal(t, 2, mergeErr.Job)
		assert.Equal(t, mergeerrors.StageAppend, mergeErr.Stage)
		assert.Equal(t, "src.txt", mergeErr.Path)
		assert.Contains(t, mergeErr.Message, out.path)
	})

	t.Run("write failure surfaces on flush", func(t *testing.T) {
		out := newTestTarget(t, os.O_RDONLY)

		err := e.appendStream(0, strings.NewReader("data"), out, fragment{path: "src.txt", isLast: true})
		assert.ErrorIs(t, err, mergeerrors.ErrCopy)
	})
}

func TestTargetFileSync(t *testing.T) {
	out := newTestTarget(t, os.O_WRONLY)
	out.sync = true

	_, err := out.Write([]byte("synced"))
	require.NoError(t, err)
	require.NoError(t, out.flush())
	assert.Equal(t, "synced", testutil.ReadFile(t, out.path))
}

func TestPrepareTargetCreatesEmptyFile(t *testing.T) {
	e := New(testConfig())
	path := filepath.Join(t.TempDir(), "a", "b", "out.txt")

	out, err := e.prepareTarget(0, path)
	require.NoError(t, err)
	require.NoError(t, out.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Size())
}

func TestPrepareSource(t *testing.T) {
	e := New(testConfig())
	dir := t.TempDir()

	t.Run("missing", func(t *testing.T) {
		_, err := e.prepareSource(4, filepath.Join(dir, "nope"))
		assert.Equal(t, mergeerrors.KindSourceNotFound, mergeerrors.KindOf(err))
	})

	t.Run("directory", func(t *testing.T) {
		_, err := e.prepareSource(4, dir)
		assert.Equal(t, mergeerrors.KindInvalidSource, mergeerrors.KindOf(err))
	})

	t.Run("regular file", func(t *testing.T) {
		f, err := e.prepareSource(4, testutil.WriteFile(t, dir, "ok.txt", "ok"))
		require.NoError(t, err)
		assert.NoError(t, f.Close())
	})
}
