package fstest

import (
	"context"
	"errors"
	"io"
	"os"
	"slices"
	"testing"

	"github.com/lepaperwan/bandersnatch/fs/core"
)

// TestStream validates the byte stream contract: reads, writes, seeking,
// truncation, line iteration, and close semantics.
func TestStream(t *testing.T, newBackend Factory, cfg Config) {
	ctx := context.Background()

	t.Run("WriteReadRoundTrip", func(t *testing.T) {
		b := newBackend(t)
		p := core.NewPath(b, "file.txt")

		f, err := p.OpenFile(ctx, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			t.Fatalf("OpenFile() error = %v", err)
		}
		n, err := f.Write(ctx, []byte("hello world"))
		if err != nil || n != 11 {
			t.Fatalf("Write() = %d, %v, want 11, nil", n, err)
		}
		if err := f.Flush(ctx); err != nil {
			t.Errorf("Flush() error = %v", err)
		}
		if err := f.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}

		data, err := p.ReadBytes(ctx)
		if err != nil || string(data) != "hello world" {
			t.Errorf("ReadBytes() = %q, %v, want %q", data, err, "hello world")
		}
	})

	t.Run("ReadPastEnd", func(t *testing.T) {
		b := newBackend(t)
		p := seed(t, b, "file.txt", "abc")

		f, err := p.Open(ctx)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer func() { _ = f.Close() }()

		all, err := f.ReadAll(ctx)
		if err != nil || string(all) != "abc" {
			t.Fatalf("ReadAll() = %q, %v, want %q, nil", all, err, "abc")
		}
		// At end of stream ReadAll is empty-not-error, Read reports io.EOF.
		rest, err := f.ReadAll(ctx)
		if err != nil || len(rest) != 0 {
			t.Errorf("ReadAll() at EOF = %q, %v, want empty, nil", rest, err)
		}
		n, err := f.Read(ctx, make([]byte, 8))
		if n != 0 || !errors.Is(err, io.EOF) {
			t.Errorf("Read() at EOF = %d, %v, want 0, io.EOF", n, err)
		}
	})

	t.Run("LineIteration", func(t *testing.T) {
		b := newBackend(t)
		p := seed(t, b, "lines.txt", "a\nb\nc")

		f, err := p.Open(ctx)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer func() { _ = f.Close() }()

		var lines []string
		for line, err := range core.Lines(ctx, f) {
			if err != nil {
				t.Fatalf("Lines() error = %v", err)
			}
			lines = append(lines, string(line))
		}
		want := []string{"a\n", "b\n", "c"}
		if !slices.Equal(lines, want) {
			t.Errorf("Lines() = %q, want %q", lines, want)
		}

		// ReadLine past the end reports the end-of-iteration sentinel.
		if line, err := f.ReadLine(ctx); len(line) != 0 || !errors.Is(err, io.EOF) {
			t.Errorf("ReadLine() at EOF = %q, %v, want empty, io.EOF", line, err)
		}
	})

	t.Run("ReadLines", func(t *testing.T) {
		b := newBackend(t)
		p := seed(t, b, "lines.txt", "one\ntwo\nthree\n")

		f, err := p.Open(ctx)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer func() { _ = f.Close() }()

		lines, err := core.ReadLines(ctx, f, 0)
		if err != nil {
			t.Fatalf("ReadLines() error = %v", err)
		}
		if len(lines) != 3 {
			t.Errorf("ReadLines() returned %d lines, want 3", len(lines))
		}
	})

	t.Run("ReadLinesHint", func(t *testing.T) {
		b := newBackend(t)
		p := seed(t, b, "lines.txt", "one\ntwo\nthree\n")

		f, err := p.Open(ctx)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer func() { _ = f.Close() }()

		// The line crossing the hint threshold is still included.
		lines, err := core.ReadLines(ctx, f, 5)
		if err != nil {
			t.Fatalf("ReadLines(hint) error = %v", err)
		}
		if len(lines) != 2 {
			t.Errorf("ReadLines(hint=5) returned %d lines, want 2", len(lines))
		}
	})

	t.Run("WriteLines", func(t *testing.T) {
		b := newBackend(t)
		p := core.NewPath(b, "out.txt")

		f, err := p.OpenFile(ctx, os.O_WRONLY|os.O_CREATE, 0o644)
		if err != nil {
			t.Fatalf("OpenFile() error = %v", err)
		}
		err = core.WriteLines(ctx, f, [][]byte{[]byte("x\n"), []byte("y\n")})
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			t.Fatalf("WriteLines() error = %v", err)
		}
		data, err := p.ReadBytes(ctx)
		if err != nil || string(data) != "x\ny\n" {
			t.Errorf("content = %q, %v, want %q", data, err, "x\ny\n")
		}
	})

	t.Run("ReadAtMost", func(t *testing.T) {
		b := newBackend(t)
		p := seed(t, b, "file.txt", "0123456789")

		f, err := p.Open(ctx)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer func() { _ = f.Close() }()

		got, err := core.ReadAtMost(ctx, f, 4)
		if err != nil || string(got) != "0123" {
			t.Fatalf("ReadAtMost(4) = %q, %v, want %q, nil", got, err, "0123")
		}
		// Asking for more than remains returns the short remainder.
		got, err = core.ReadAtMost(ctx, f, 100)
		if err != nil || string(got) != "456789" {
			t.Errorf("ReadAtMost(100) = %q, %v, want %q, nil", got, err, "456789")
		}
		got, err = core.ReadAtMost(ctx, f, 8)
		if err != nil || len(got) != 0 {
			t.Errorf("ReadAtMost() at EOF = %q, %v, want empty, nil", got, err)
		}

		if _, err := f.Seek(0, io.SeekStart); err != nil {
			t.Fatalf("Seek(0) error = %v", err)
		}
		got, err = core.ReadAtMost(ctx, f, -1)
		if err != nil || string(got) != "0123456789" {
			t.Errorf("ReadAtMost(-1) = %q, %v, want the whole stream", got, err)
		}
	})

	t.Run("Copy", func(t *testing.T) {
		b := newBackend(t)
		src := seed(t, b, "src.txt", "copy me")
		dst := core.NewPath(b, "dst.txt")

		sf, err := src.Open(ctx)
		if err != nil {
			t.Fatalf("Open(src) error = %v", err)
		}
		defer func() { _ = sf.Close() }()
		df, err := dst.OpenFile(ctx, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			t.Fatalf("OpenFile(dst) error = %v", err)
		}

		n, err := core.Copy(ctx, df, sf)
		if cerr := df.Close(); err == nil {
			err = cerr
		}
		if err != nil || n != 7 {
			t.Fatalf("Copy() = %d, %v, want 7, nil", n, err)
		}
		data, err := dst.ReadBytes(ctx)
		if err != nil || string(data) != "copy me" {
			t.Errorf("content after copy = %q, %v, want %q", data, err, "copy me")
		}
	})

	t.Run("TextRoundTrip", func(t *testing.T) {
		b := newBackend(t)
		p := core.NewPath(b, "note.txt")

		n, err := p.WriteText(ctx, "héllo\n")
		if err != nil || n != len("héllo\n") {
			t.Fatalf("WriteText() = %d, %v, want %d, nil", n, err, len("héllo\n"))
		}
		text, err := p.ReadText(ctx)
		if err != nil || text != "héllo\n" {
			t.Errorf("ReadText() = %q, %v, want %q", text, err, "héllo\n")
		}
	})

	t.Run("SeekTell", func(t *testing.T) {
		b := newBackend(t)
		p := seed(t, b, "file.txt", "0123456789")

		f, err := p.Open(ctx)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer func() { _ = f.Close() }()

		if !f.Seekable() {
			t.Fatal("Seekable() = false for a regular file")
		}
		pos, err := f.Seek(4, io.SeekStart)
		if err != nil || pos != 4 {
			t.Fatalf("Seek(4) = %d, %v, want 4, nil", pos, err)
		}
		rest, err := f.ReadAll(ctx)
		if err != nil || string(rest) != "456789" {
			t.Errorf("ReadAll() after seek = %q, %v, want %q", rest, err, "456789")
		}
		pos, err = f.Tell()
		if err != nil || pos != 10 {
			t.Errorf("Tell() = %d, %v, want 10", pos, err)
		}
	})

	t.Run("SeekInterleavedWithLines", func(t *testing.T) {
		b := newBackend(t)
		p := seed(t, b, "file.txt", "aa\nbb\ncc\n")

		f, err := p.Open(ctx)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.ReadLine(ctx); err != nil {
			t.Fatalf("ReadLine() error = %v", err)
		}
		// Tell accounts for read-ahead buffering.
		pos, err := f.Tell()
		if err != nil || pos != 3 {
			t.Fatalf("Tell() after one line = %d, %v, want 3", pos, err)
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			t.Fatalf("Seek(0) error = %v", err)
		}
		line, err := f.ReadLine(ctx)
		if err != nil || string(line) != "aa\n" {
			t.Errorf("ReadLine() after rewind = %q, %v, want %q", line, err, "aa\n")
		}
	})

	t.Run("Truncate", func(t *testing.T) {
		b := newBackend(t)
		p := seed(t, b, "file.txt", "0123456789")

		f, err := p.OpenFile(ctx, os.O_RDWR, 0)
		if err != nil {
			t.Fatalf("OpenFile() error = %v", err)
		}
		if err := f.Truncate(ctx, 4); err != nil {
			t.Fatalf("Truncate() error = %v", err)
		}
		if err := f.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		data, err := p.ReadBytes(ctx)
		if err != nil || string(data) != "0123" {
			t.Errorf("content after truncate = %q, %v, want %q", data, err, "0123")
		}
	})

	t.Run("CapabilityErrors", func(t *testing.T) {
		b := newBackend(t)
		p := seed(t, b, "file.txt", "x")

		ro, err := p.Open(ctx)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer func() { _ = ro.Close() }()
		if _, err := ro.Write(ctx, []byte("y")); !errors.Is(err, core.ErrNotWritable) {
			t.Errorf("Write(read-only) error = %v, want ErrNotWritable", err)
		}
		if err := ro.Truncate(ctx, 0); !errors.Is(err, core.ErrNotWritable) {
			t.Errorf("Truncate(read-only) error = %v, want ErrNotWritable", err)
		}

		wo, err := p.OpenFile(ctx, os.O_WRONLY, 0)
		if err != nil {
			t.Fatalf("OpenFile(write-only) error = %v", err)
		}
		defer func() { _ = wo.Close() }()
		if _, err := wo.Read(ctx, make([]byte, 1)); !errors.Is(err, core.ErrNotReadable) {
			t.Errorf("Read(write-only) error = %v, want ErrNotReadable", err)
		}
	})

	t.Run("CloseIdempotent", func(t *testing.T) {
		b := newBackend(t)
		p := seed(t, b, "file.txt", "x")

		f, err := p.Open(ctx)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		if err := f.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		if err := f.Close(); err != nil {
			t.Errorf("second Close() error = %v, want nil", err)
		}
		if !f.Closed() {
			t.Error("Closed() = false after Close")
		}
		if _, err := f.Read(ctx, make([]byte, 1)); !errors.Is(err, core.ErrClosed) {
			t.Errorf("Read(closed) error = %v, want ErrClosed", err)
		}
		if _, err := f.Seek(0, io.SeekStart); !errors.Is(err, core.ErrClosed) {
			t.Errorf("Seek(closed) error = %v, want ErrClosed", err)
		}
	})

	t.Run("CancelledContext", func(t *testing.T) {
		b := newBackend(t)
		p := seed(t, b, "file.txt", "x")

		f, err := p.Open(ctx)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer func() { _ = f.Close() }()

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := f.Read(cancelled, make([]byte, 1)); !errors.Is(err, context.Canceled) {
			t.Errorf("Read(cancelled ctx) error = %v, want context.Canceled", err)
		}
		if _, err := p.Open(cancelled); !errors.Is(err, context.Canceled) {
			t.Errorf("Open(cancelled ctx) error = %v, want context.Canceled", err)
		}
	})
}
