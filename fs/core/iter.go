package core

import (
	"context"
	"io/fs"
	"iter"
	"path"
	"strings"
)

// Iterdir returns a lazy sequence of the directory's entries as Paths.
// Yielded Paths carry no metadata; callers stat them as needed. Iteration
// order follows the backend's listing order, which must be stable for an
// unmodified directory. A listing failure is yielded once as a non-nil
// error and ends the sequence.
func (p Path) Iterdir(ctx context.Context) iter.Seq2[Path, error] {
	return func(yield func(Path, error) bool) {
		entries, err := p.backend.ReadDir(ctx, p.name)
		if err != nil {
			yield(Path{}, err)
			return
		}
		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				yield(Path{}, err)
				return
			}
			if !yield(p.Join(entry.Name()), nil) {
				return
			}
		}
	}
}

// Glob returns a lazy sequence of the Paths under p matching the
// slash-separated shell pattern. Each segment supports the path.Match
// syntax; the segment "**" matches zero or more directories. Directories
// are listed on demand as the consumer advances, so unconsumed branches
// cost no I/O.
func (p Path) Glob(ctx context.Context, pattern string) iter.Seq2[Path, error] {
	segments := strings.Split(path.Clean(pattern), "/")
	return func(yield func(Path, error) bool) {
		if pattern == "" || pattern == "." || strings.HasPrefix(pattern, "/") {
			yield(Path{}, PathError("glob", p.name, fs.ErrInvalid))
			return
		}
		p.glob(ctx, segments, yield)
	}
}

// Rglob returns a lazy sequence of the Paths matching pattern anywhere in
// the tree under p, equivalent to Glob("**/" + pattern).
func (p Path) Rglob(ctx context.Context, pattern string) iter.Seq2[Path, error] {
	return p.Glob(ctx, "**/"+pattern)
}

// glob yields matches of segments under p. It reports false once the
// consumer stops or a failure was yielded.
func (p Path) glob(ctx context.Context, segments []string, yield func(Path, error) bool) bool {
	if len(segments) == 0 {
		return yield(p, nil)
	}
	if err := ctx.Err(); err != nil {
		return yield(Path{}, err)
	}

	seg, rest := segments[0], segments[1:]
	if seg == "**" {
		// Zero directories: match the rest right here.
		if !p.glob(ctx, rest, yield) {
			return false
		}
		// One or more: descend into every subdirectory with "**" kept.
		return p.eachDir(ctx, yield, func(child Path) bool {
			return child.glob(ctx, segments, yield)
		})
	}

	entries, err := p.backend.ReadDir(ctx, p.name)
	if err != nil {
		return yield(Path{}, err)
	}
	for _, entry := range entries {
		ok, err := path.Match(seg, entry.Name())
		if err != nil {
			return yield(Path{}, PathError("glob", p.name, err))
		}
		if !ok {
			continue
		}
		child := p.Join(entry.Name())
		if len(rest) == 0 {
			if !yield(child, nil) {
				return false
			}
			continue
		}
		if entry.IsDir() && !child.glob(ctx, rest, yield) {
			return false
		}
	}
	return true
}

// eachDir runs fn for every subdirectory of p, in listing order.
func (p Path) eachDir(ctx context.Context, yield func(Path, error) bool, fn func(Path) bool) bool {
	entries, err := p.backend.ReadDir(ctx, p.name)
	if err != nil {
		return yield(Path{}, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if !fn(p.Join(entry.Name())) {
			return false
		}
	}
	return true
}
