package core

import (
	"context"
	"errors"
	"io"
	"iter"
)

// Lines returns a lazy sequence of the file's lines, read on demand.
// Lines keep their trailing '\n' except possibly the last one. The
// sequence ends, without an error, when ReadLine reports end of stream;
// any other failure is yielded once and ends the sequence.
func Lines(ctx context.Context, f File) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		for {
			line, err := f.ReadLine(ctx)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(line, nil) {
				return
			}
		}
	}
}

// ReadLines reads successive lines from f. With hint > 0, reading stops
// once the total size of collected lines reaches hint; the line that
// crossed the threshold is still included, matching readlines semantics.
func ReadLines(ctx context.Context, f File, hint int) ([][]byte, error) {
	var lines [][]byte
	var total int
	for line, err := range Lines(ctx, f) {
		if err != nil {
			return lines, err
		}
		lines = append(lines, line)
		total += len(line)
		if hint > 0 && total >= hint {
			break
		}
	}
	return lines, nil
}

// WriteLines writes each buffer to f in order. No line separators are
// added; callers supply them, matching writelines semantics.
func WriteLines(ctx context.Context, f File, lines [][]byte) error {
	for _, line := range lines {
		if _, err := f.Write(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

// ReadAtMost reads at most size bytes from f. With size < 0 the whole
// remaining stream is read. At end of stream the result is empty with a
// nil error.
func ReadAtMost(ctx context.Context, f File, size int) ([]byte, error) {
	if size < 0 {
		return f.ReadAll(ctx)
	}
	buf := make([]byte, size)
	n := 0
	for n < size {
		m, err := f.Read(ctx, buf[n:])
		n += m
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return buf[:n], err
		}
	}
	return buf[:n], nil
}

// Copy streams src into dst in chunks, honoring ctx between chunks, and
// returns the number of bytes copied.
func Copy(ctx context.Context, dst, src File) (int64, error) {
	buf := make([]byte, 128*1024)
	var written int64
	for {
		n, rerr := src.Read(ctx, buf)
		if n > 0 {
			if _, werr := dst.Write(ctx, buf[:n]); werr != nil {
				return written, werr
			}
			written += int64(n)
		}
		if errors.Is(rerr, io.EOF) {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}
