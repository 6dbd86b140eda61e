package merger

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/erraggy/filemerge/internal/eol"
	"github.com/erraggy/filemerge/internal/fileutil"
	"github.com/erraggy/filemerge/mergeerrors"
	"golang.org/x/text/transform"
)

// targetHandle is the open target file. *os.File implements it.
type targetHandle interface {
	io.WriteCloser
	Sync() error
}

func createTarget(path string) (targetHandle, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL|os.O_TRUNC, fileutil.TargetFileMode)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func openSource(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// targetFile is the write side of a job: a buffered stream over the freshly
// created target that counts the bytes it accepts.
type targetFile struct {
	file    targetHandle
	buf     *bufio.Writer
	path    string
	sync    bool
	written int64
}

func (t *targetFile) Write(p []byte) (int, error) {
	n, err := t.buf.Write(p)
	t.written += int64(n)
	return n, err
}

// flush pushes buffered bytes to the file and, when enabled, to stable storage.
func (t *targetFile) flush() error {
	if err := t.buf.Flush(); err != nil {
		return err
	}
	if t.sync {
		return t.file.Sync()
	}
	return nil
}

func (t *targetFile) Close() error {
	return t.file.Close()
}

// fragment carries what appendStream needs to know about one source.
type fragment struct {
	path      string
	separator []byte
	rewrite   string
	isLast    bool
}

func newMergeError(kind mergeerrors.Kind, job int, stage mergeerrors.Stage, path string, cause error) error {
	return &mergeerrors.MergeError{Kind: kind, Job: job, Stage: stage, Path: path, Cause: cause}
}

// runJob merges one job. Every handle it opens is closed before it returns;
// a close failure is only reported when nothing failed earlier.
func (e *Engine) runJob(index int, job Job) (jr JobResult, err error) {
	start := time.Now()
	log := e.logger.With("job", index, "target", job.target)

	separator := e.config.LineSeparator
	if job.hasRewrite {
		separator = job.rewrite
	}

	out, err := e.prepareTarget(index, job.target)
	if err != nil {
		return jr, err
	}
	defer func() {
		err = e.closeHandle(index, out, job.target, err)
	}()

	for n, src := range job.sources {
		frag := fragment{
			path:      src,
			separator: []byte(separator),
			isLast:    n == len(job.sources)-1,
		}
		if job.hasRewrite {
			frag.rewrite = job.rewrite
		}
		before := out.written
		if err := e.appendSource(index, out, frag); err != nil {
			return jr, err
		}
		log.Debug("appended source", "source", src, "position", n+1, "bytes", out.written-before)
	}

	jr = JobResult{
		Index:        index,
		Target:       job.target,
		SourceCount:  len(job.sources),
		BytesWritten: out.written,
		Duration:     time.Since(start),
	}
	log.Info("merged", "sources", jr.SourceCount, "bytes", jr.BytesWritten)
	return jr, nil
}

// closeHandle closes c and returns the error the caller should report: err
// when it is set, otherwise a close failure. A close failure behind an
// earlier error is only logged.
func (e *Engine) closeHandle(index int, c io.Closer, path string, err error) error {
	closeErr := c.Close()
	if closeErr == nil {
		return err
	}
	if err != nil {
		e.logger.Warn("close failed after an earlier error", "job", index, "path", path, "error", closeErr)
		return err
	}
	return newMergeError(mergeerrors.KindClose, index, mergeerrors.StageClose, path, closeErr)
}

// prepareTarget removes whatever file sits at path, makes sure its parent
// directory exists, and creates a new empty file for writing.
func (e *Engine) prepareTarget(index int, path string) (*targetFile, error) {
	fail := func(kind mergeerrors.Kind, p string, cause error) error {
		return newMergeError(kind, index, mergeerrors.StagePrepareTarget, p, cause)
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return nil, fail(mergeerrors.KindInvalidTarget, path, nil)
	}
	// Lstat so a dangling symlink is removed too.
	if _, err := os.Lstat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return nil, fail(mergeerrors.KindTargetNotRemovable, path, err)
		}
	}

	dir := filepath.Dir(path)
	dirInfo, err := os.Stat(dir)
	if err != nil {
		if err := os.MkdirAll(dir, fileutil.TargetDirMode); err != nil {
			return nil, fail(mergeerrors.KindDirectoryNotCreatable, dir, err)
		}
		if dirInfo, err = os.Stat(dir); err != nil {
			return nil, fail(mergeerrors.KindDirectoryNotCreatable, dir, err)
		}
	}
	if !dirInfo.IsDir() {
		return nil, fail(mergeerrors.KindNotADirectory, dir, nil)
	}

	// O_EXCL: something that appeared since the removal above is not ours to clobber.
	file, err := e.createTarget(path)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fail(mergeerrors.KindTargetNotCreatable, path, err)
		}
		return nil, fail(mergeerrors.KindIO, path, err)
	}

	return &targetFile{
		file: file,
		buf:  bufio.NewWriter(file),
		path: path,
		sync: e.config.Sync,
	}, nil
}

// prepareSource opens a source for reading.
func (e *Engine) prepareSource(index int, path string) (io.ReadCloser, error) {
	fail := func(kind mergeerrors.Kind, cause error) error {
		return newMergeError(kind, index, mergeerrors.StagePrepareSource, path, cause)
	}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fail(mergeerrors.KindSourceNotFound, err)
	case err != nil:
		return nil, fail(mergeerrors.KindIO, err)
	case info.IsDir():
		return nil, fail(mergeerrors.KindInvalidSource, nil)
	}

	file, err := e.openSource(path)
	if err != nil {
		return nil, fail(mergeerrors.KindIO, err)
	}
	return file, nil
}

// appendSource opens one source, appends it and closes it again.
func (e *Engine) appendSource(index int, out *targetFile, frag fragment) (err error) {
	in, err := e.prepareSource(index, frag.path)
	if err != nil {
		return err
	}
	defer func() {
		err = e.closeHandle(index, in, frag.path, err)
	}()
	return e.appendStream(index, in, out, frag)
}

// appendStream copies in to out, rewriting line breaks when the fragment asks
// for it, then writes the separator unless this is the last fragment, and
// flushes.
func (e *Engine) appendStream(index int, in io.Reader, out *targetFile, frag fragment) error {
	fail := func(msg string, cause error) error {
		return &mergeerrors.MergeError{
			Kind:    mergeerrors.KindCopy,
			Job:     index,
			Stage:   mergeerrors.StageAppend,
			Path:    frag.path,
			Message: msg + " " + out.path,
			Cause:   cause,
		}
	}

	r := in
	if frag.rewrite != "" {
		r = transform.NewReader(in, eol.NewNormalizer(frag.rewrite))
	}
	if _, err := io.Copy(out, r); err != nil {
		return fail("copying into", err)
	}
	if !frag.isLast {
		if _, err := out.Write(frag.separator); err != nil {
			return fail("writing separator to", err)
		}
	}
	if err := out.flush(); err != nil {
		return fail("flushing", err)
	}
	return nil
}
