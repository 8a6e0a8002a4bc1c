package billy

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"

	"github.com/go-git/go-billy/v5"

	"github.com/lepaperwan/bandersnatch/fs/core"
)

// readChunk is the refill size for buffered line reads and the transfer
// chunk for ReadAll, which re-checks the context between chunks.
const readChunk = 128 * 1024

// File wraps billy.File to implement core.File. It records the handle's
// capabilities from the open flags, keeps Close idempotent, and maintains
// a small read-ahead buffer for line scanning. The logical cursor seen by
// Seek and Tell accounts for buffered read-ahead.
type File struct {
	file billy.File
	fs   billy.Basic
	name string

	readable bool
	writable bool
	seekable bool
	closed   bool

	// rbuf holds bytes read from the backend but not yet consumed.
	rbuf []byte
}

func newFile(f billy.File, bfs billy.Basic, name string, flag int) *File {
	accmode := flag & (os.O_RDONLY | os.O_WRONLY | os.O_RDWR)
	seekable := true
	if info, err := bfs.Stat(name); err == nil && !info.Mode().IsRegular() {
		seekable = false
	}
	return &File{
		file:     f,
		fs:       bfs,
		name:     name,
		readable: accmode != os.O_WRONLY,
		writable: accmode != os.O_RDONLY,
		seekable: seekable,
	}
}

// Name returns the backend path the file was opened with.
func (f *File) Name() string { return f.name }

// Readable reports whether the handle was opened for reading.
func (f *File) Readable() bool { return f.readable }

// Writable reports whether the handle was opened for writing.
func (f *File) Writable() bool { return f.writable }

// Seekable reports whether the resource supports random access.
func (f *File) Seekable() bool { return f.seekable }

// Closed reports whether Close has been called.
func (f *File) Closed() bool { return f.closed }

func (f *File) checkRead(ctx context.Context, op string) error {
	switch {
	case f.closed:
		return core.PathError(op, f.name, core.ErrClosed)
	case !f.readable:
		return core.PathError(op, f.name, core.ErrNotReadable)
	default:
		return core.PathError(op, f.name, ctx.Err())
	}
}

func (f *File) checkWrite(ctx context.Context, op string) error {
	switch {
	case f.closed:
		return core.PathError(op, f.name, core.ErrClosed)
	case !f.writable:
		return core.PathError(op, f.name, core.ErrNotWritable)
	default:
		return core.PathError(op, f.name, ctx.Err())
	}
}

// Read reads up to len(p) bytes into p, serving buffered read-ahead first.
func (f *File) Read(ctx context.Context, p []byte) (int, error) {
	if err := f.checkRead(ctx, "read"); err != nil {
		return 0, err
	}
	if len(f.rbuf) > 0 {
		n := copy(p, f.rbuf)
		f.rbuf = f.rbuf[n:]
		return n, nil
	}
	return f.file.Read(p)
}

// ReadAll reads until end of stream in chunks, honoring ctx between
// chunks. The end of the stream is not an error.
func (f *File) ReadAll(ctx context.Context) ([]byte, error) {
	if err := f.checkRead(ctx, "read"); err != nil {
		return nil, err
	}
	out := append([]byte(nil), f.rbuf...)
	f.rbuf = nil
	buf := make([]byte, readChunk)
	for {
		if err := ctx.Err(); err != nil {
			return out, core.PathError("read", f.name, err)
		}
		n, err := f.file.Read(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
	}
}

// ReadLine reads up to and including the next '\n'. At end of stream it
// returns nil, io.EOF; a final unterminated line is returned without a
// newline first.
func (f *File) ReadLine(ctx context.Context) ([]byte, error) {
	if err := f.checkRead(ctx, "readline"); err != nil {
		return nil, err
	}
	for {
		if i := bytes.IndexByte(f.rbuf, '\n'); i >= 0 {
			line := append([]byte(nil), f.rbuf[:i+1]...)
			f.rbuf = f.rbuf[i+1:]
			return line, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, core.PathError("readline", f.name, err)
		}

		buf := make([]byte, readChunk)
		n, err := f.file.Read(buf)
		f.rbuf = append(f.rbuf, buf[:n]...)
		if errors.Is(err, io.EOF) {
			if len(f.rbuf) == 0 {
				return nil, io.EOF
			}
			line := f.rbuf
			f.rbuf = nil
			return line, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// Write writes len(p) bytes from p. Pending read-ahead is unwound first so
// the write lands at the logical cursor position.
func (f *File) Write(ctx context.Context, p []byte) (int, error) {
	if err := f.checkWrite(ctx, "write"); err != nil {
		return 0, err
	}
	if err := f.unwind(); err != nil {
		return 0, err
	}
	return f.file.Write(p)
}

// Seek sets the logical cursor position and returns the new offset.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	if f.closed {
		return 0, core.PathError("seek", f.name, core.ErrClosed)
	}
	if !f.seekable {
		return 0, core.PathError("seek", f.name, core.ErrNotSeekable)
	}
	if whence == io.SeekCurrent {
		offset -= int64(len(f.rbuf))
	}
	f.rbuf = nil
	return f.file.Seek(offset, whence)
}

// Tell returns the current logical cursor position.
func (f *File) Tell() (int64, error) {
	return f.Seek(0, io.SeekCurrent)
}

// Truncate changes the size of the file without moving the cursor.
func (f *File) Truncate(ctx context.Context, size int64) error {
	if err := f.checkWrite(ctx, "truncate"); err != nil {
		return err
	}
	if !f.seekable {
		return core.PathError("truncate", f.name, core.ErrNotSeekable)
	}
	if err := f.unwind(); err != nil {
		return err
	}
	return f.file.Truncate(size)
}

// Flush forces buffered writes to the backend when it supports syncing.
// In-memory files have nothing to flush and return nil.
func (f *File) Flush(ctx context.Context) error {
	if f.closed {
		return core.PathError("flush", f.name, core.ErrClosed)
	}
	if err := ctx.Err(); err != nil {
		return core.PathError("flush", f.name, err)
	}
	if !f.writable {
		return nil
	}
	if syncer, ok := f.file.(interface{ Sync() error }); ok {
		return syncer.Sync()
	}
	return nil
}

// Close releases the handle. Calling Close more than once is a no-op.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.rbuf = nil
	return f.file.Close()
}

// unwind rewinds the backend cursor past unconsumed read-ahead so writes
// and truncation operate at the logical position.
func (f *File) unwind() error {
	if len(f.rbuf) == 0 {
		return nil
	}
	if _, err := f.file.Seek(-int64(len(f.rbuf)), io.SeekCurrent); err != nil {
		return err
	}
	f.rbuf = nil
	return nil
}

var _ core.File = (*File)(nil)
