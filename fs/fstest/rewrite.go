package fstest

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/lepaperwan/bandersnatch/fs/core"
)

// stagedSiblings lists dot-prefixed entries next to target that carry its
// name, i.e. leftover rewrite staging files.
func stagedSiblings(t *testing.T, ctx context.Context, target core.Path) []string {
	t.Helper()
	var names []string
	for p, err := range target.Parent().Iterdir(ctx) {
		if err != nil {
			t.Fatalf("Iterdir() error = %v", err)
		}
		if strings.HasPrefix(p.Base(), "."+target.Base()+".") {
			names = append(names, p.Base())
		}
	}
	return names
}

// TestRewrite validates atomic rewrites: commit visibility, failure
// rollback, and abandonment.
func TestRewrite(t *testing.T, newBackend Factory, cfg Config) {
	ctx := context.Background()

	t.Run("CommitReplacesContent", func(t *testing.T) {
		b := newBackend(t)
		target := seed(t, b, "file.txt", "old")

		err := core.Rewrite(ctx, target, func(f core.File) error {
			_, werr := f.Write(ctx, []byte("new"))
			return werr
		})
		if err != nil {
			t.Fatalf("Rewrite() error = %v", err)
		}
		data, err := target.ReadBytes(ctx)
		if err != nil || string(data) != "new" {
			t.Errorf("content = %q, %v, want %q", data, err, "new")
		}
		if left := stagedSiblings(t, ctx, target); len(left) != 0 {
			t.Errorf("staging files left behind: %v", left)
		}
	})

	t.Run("CreatesMissingTarget", func(t *testing.T) {
		b := newBackend(t)
		target := core.NewPath(b, "fresh.txt")

		err := core.Rewrite(ctx, target, func(f core.File) error {
			_, werr := f.Write(ctx, []byte("content"))
			return werr
		})
		if err != nil {
			t.Fatalf("Rewrite() error = %v", err)
		}
		data, err := target.ReadBytes(ctx)
		if err != nil || string(data) != "content" {
			t.Errorf("content = %q, %v, want %q", data, err, "content")
		}
	})

	t.Run("ErrorLeavesTargetUntouched", func(t *testing.T) {
		b := newBackend(t)
		target := seed(t, b, "file.txt", "old")

		sentinel := errors.New("boom")
		err := core.Rewrite(ctx, target, func(f core.File) error {
			if _, werr := f.Write(ctx, []byte("partial")); werr != nil {
				return werr
			}
			return sentinel
		})
		if !errors.Is(err, sentinel) {
			t.Fatalf("Rewrite() error = %v, want sentinel", err)
		}
		data, err := target.ReadBytes(ctx)
		if err != nil || string(data) != "old" {
			t.Errorf("content = %q, %v, want untouched %q", data, err, "old")
		}
		if left := stagedSiblings(t, ctx, target); len(left) != 0 {
			t.Errorf("staging files left after failed rewrite: %v", left)
		}
	})

	t.Run("AbandonByDelete", func(t *testing.T) {
		b := newBackend(t)
		target := seed(t, b, "file.txt", "old")

		err := core.Rewrite(ctx, target, func(f core.File) error {
			if _, werr := f.Write(ctx, []byte("discard")); werr != nil {
				return werr
			}
			// Removing the staged file abandons the rewrite.
			return core.NewPath(b, f.Name()).Unlink(ctx, false)
		})
		if err != nil {
			t.Fatalf("Rewrite() error = %v, want silent skip", err)
		}
		data, err := target.ReadBytes(ctx)
		if err != nil || string(data) != "old" {
			t.Errorf("content = %q, %v, want untouched %q", data, err, "old")
		}
	})

	t.Run("StagedNaming", func(t *testing.T) {
		b := newBackend(t)
		target := seed(t, b, "dir/file.txt", "old")

		err := core.Rewrite(ctx, target, func(f core.File) error {
			staged := core.NewPath(b, f.Name())
			if got := staged.Parent().String(); got != target.Parent().String() {
				t.Errorf("staged file in %q, want sibling of %q", got, target.Parent())
			}
			if base := staged.Base(); !strings.HasPrefix(base, ".file.txt.") {
				t.Errorf("staged name = %q, want \".file.txt.\" prefix", base)
			}
			_, werr := f.Write(ctx, []byte("new"))
			return werr
		})
		if err != nil {
			t.Fatalf("Rewrite() error = %v", err)
		}
	})

	t.Run("CommitMode", func(t *testing.T) {
		if !cfg.Metadata {
			t.Skip("backend does not support permission bits")
		}
		b := newBackend(t)
		target := seed(t, b, "file.txt", "old")

		err := core.Rewrite(ctx, target, func(f core.File) error {
			_, werr := f.Write(ctx, []byte("new"))
			return werr
		})
		if err != nil {
			t.Fatalf("Rewrite() error = %v", err)
		}
		info, err := target.Stat(ctx)
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if got := info.Mode().Perm(); got != fs.FileMode(core.CommitMode) {
			t.Errorf("mode = %v, want %v", got, fs.FileMode(core.CommitMode))
		}
	})

	t.Run("CancelledContext", func(t *testing.T) {
		b := newBackend(t)
		target := seed(t, b, "file.txt", "old")

		rctx, cancel := context.WithCancel(ctx)
		err := core.Rewrite(rctx, target, func(f core.File) error {
			if _, werr := f.Write(rctx, []byte("new")); werr != nil {
				return werr
			}
			cancel()
			return nil
		})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Rewrite() error = %v, want context.Canceled", err)
		}
		data, err := target.ReadBytes(ctx)
		if err != nil || string(data) != "old" {
			t.Errorf("content = %q, %v, want untouched %q", data, err, "old")
		}
		if left := stagedSiblings(t, ctx, target); len(left) != 0 {
			t.Errorf("staging files left after cancelled rewrite: %v", left)
		}
	})
}
