package fstest

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/lepaperwan/bandersnatch/fs/core"
)

// TestMutation validates the mutation operations: mkdir, touch, chmod,
// unlink, rmdir, rename, replace, and linking.
func TestMutation(t *testing.T, newBackend Factory, cfg Config) {
	ctx := context.Background()

	t.Run("Mkdir", func(t *testing.T) {
		b := newBackend(t)
		dir := core.NewPath(b, "dir")

		if err := dir.Mkdir(ctx); err != nil {
			t.Fatalf("Mkdir() error = %v", err)
		}
		isDir, err := dir.IsDir(ctx)
		if err != nil || !isDir {
			t.Errorf("IsDir() after Mkdir = %v, %v, want true", isDir, err)
		}
		if err := dir.Mkdir(ctx); !errors.Is(err, core.ErrExist) {
			t.Errorf("Mkdir(existing) error = %v, want ErrExist", err)
		}
		if err := dir.Mkdir(ctx, core.WithExistOK()); err != nil {
			t.Errorf("Mkdir(existing, exist_ok) error = %v, want nil", err)
		}
	})

	t.Run("MkdirParents", func(t *testing.T) {
		b := newBackend(t)
		deep := core.NewPath(b, "a/b/c")

		if err := deep.Mkdir(ctx); !errors.Is(err, core.ErrNotExist) {
			t.Errorf("Mkdir(missing parents) error = %v, want ErrNotExist", err)
		}
		if err := deep.Mkdir(ctx, core.WithParents()); err != nil {
			t.Fatalf("Mkdir(parents) error = %v", err)
		}
		isDir, err := deep.IsDir(ctx)
		if err != nil || !isDir {
			t.Errorf("IsDir(a/b/c) = %v, %v, want true", isDir, err)
		}
	})

	t.Run("MkdirExistOKOverFile", func(t *testing.T) {
		b := newBackend(t)
		p := seed(t, b, "occupied", "x")

		if err := p.Mkdir(ctx, core.WithExistOK()); err == nil {
			t.Error("Mkdir(exist_ok) over a file succeeded, want error")
		}
	})

	t.Run("Touch", func(t *testing.T) {
		b := newBackend(t)
		p := core.NewPath(b, "touched.txt")

		if err := p.Touch(ctx); err != nil {
			t.Fatalf("Touch() error = %v", err)
		}
		info, err := p.Stat(ctx)
		if err != nil {
			t.Fatalf("Stat() after Touch error = %v", err)
		}
		if info.Size() != 0 {
			t.Errorf("Touch created file of size %d, want 0", info.Size())
		}
		// Touching an existing file must not fail or truncate.
		p = seed(t, b, "existing.txt", "content")
		if err := p.Touch(ctx); err != nil {
			t.Fatalf("Touch(existing) error = %v", err)
		}
		data, err := p.ReadBytes(ctx)
		if err != nil || string(data) != "content" {
			t.Errorf("content after Touch = %q, %v, want %q", data, err, "content")
		}
	})

	t.Run("Chmod", func(t *testing.T) {
		b := newBackend(t)
		p := seed(t, b, "file.txt", "x")

		err := p.Chmod(ctx, 0o600)
		if !cfg.Metadata {
			if !errors.Is(err, core.ErrUnsupported) {
				t.Errorf("Chmod() error = %v, want ErrUnsupported", err)
			}
			return
		}
		if err != nil {
			t.Fatalf("Chmod() error = %v", err)
		}
		info, err := p.Stat(ctx)
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if got := info.Mode().Perm(); got != 0o600 {
			t.Errorf("mode after Chmod = %v, want 0600", got)
		}
	})

	t.Run("Lchmod", func(t *testing.T) {
		b := newBackend(t)
		p := seed(t, b, "file.txt", "x")

		err := p.Lchmod(ctx, 0o640)
		if !cfg.Metadata {
			if !errors.Is(err, core.ErrUnsupported) {
				t.Errorf("Lchmod() error = %v, want ErrUnsupported", err)
			}
			return
		}
		if err != nil {
			t.Fatalf("Lchmod(file) error = %v", err)
		}
		info, err := p.Stat(ctx)
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if got := info.Mode().Perm(); got != 0o640 {
			t.Errorf("mode after Lchmod = %v, want 0640", got)
		}

		// POSIX has no portable symlink chmod; the link itself is refused.
		link := core.NewPath(b, "link.txt")
		if err := link.SymlinkTo(ctx, p); err != nil {
			t.Fatalf("SymlinkTo() error = %v", err)
		}
		if err := link.Lchmod(ctx, 0o640); !errors.Is(err, core.ErrUnsupported) {
			t.Errorf("Lchmod(symlink) error = %v, want ErrUnsupported", err)
		}
	})

	t.Run("Unlink", func(t *testing.T) {
		b := newBackend(t)
		p := seed(t, b, "file.txt", "x")

		if err := p.Unlink(ctx, false); err != nil {
			t.Fatalf("Unlink() error = %v", err)
		}
		if err := p.Unlink(ctx, false); !errors.Is(err, core.ErrNotExist) {
			t.Errorf("Unlink(missing) error = %v, want ErrNotExist", err)
		}
		if err := p.Unlink(ctx, true); err != nil {
			t.Errorf("Unlink(missing, missing_ok) error = %v, want nil", err)
		}
	})

	t.Run("Rmdir", func(t *testing.T) {
		b := newBackend(t)
		p := seed(t, b, "dir/file.txt", "x")
		dir := core.NewPath(b, "dir")

		if err := dir.Rmdir(ctx); !errors.Is(err, core.ErrNotEmpty) {
			t.Errorf("Rmdir(non-empty) error = %v, want ErrNotEmpty", err)
		}
		if err := p.Rmdir(ctx); !errors.Is(err, fs.ErrInvalid) {
			t.Errorf("Rmdir(file) error = %v, want ErrInvalid", err)
		}
		if err := p.Unlink(ctx, false); err != nil {
			t.Fatalf("Unlink() error = %v", err)
		}
		if err := dir.Rmdir(ctx); err != nil {
			t.Errorf("Rmdir(empty) error = %v", err)
		}
	})

	t.Run("RenameRoundTrip", func(t *testing.T) {
		b := newBackend(t)
		p := seed(t, b, "old.txt", "payload")
		before, err := p.Stat(ctx)
		if err != nil {
			t.Fatalf("Stat(old) error = %v", err)
		}

		q, err := p.Rename(ctx, core.NewPath(b, "new.txt"))
		if err != nil {
			t.Fatalf("Rename() error = %v", err)
		}
		after, err := q.Stat(ctx)
		if err != nil {
			t.Fatalf("Stat(new) error = %v", err)
		}
		if after.Size() != before.Size() {
			t.Errorf("size after rename = %d, want %d", after.Size(), before.Size())
		}
		data, err := q.ReadBytes(ctx)
		if err != nil || string(data) != "payload" {
			t.Errorf("content after rename = %q, %v, want %q", data, err, "payload")
		}
		if _, err := p.Stat(ctx); !errors.Is(err, core.ErrNotExist) {
			t.Errorf("Stat(old) after rename error = %v, want ErrNotExist", err)
		}
	})

	t.Run("ReplaceOverwrites", func(t *testing.T) {
		b := newBackend(t)
		src := seed(t, b, "src.txt", "new content")
		dst := seed(t, b, "dst.txt", "old content")

		if _, err := src.Replace(ctx, dst); err != nil {
			t.Fatalf("Replace() error = %v", err)
		}
		data, err := dst.ReadBytes(ctx)
		if err != nil || string(data) != "new content" {
			t.Errorf("content after replace = %q, %v, want %q", data, err, "new content")
		}
		if _, err := src.Stat(ctx); !errors.Is(err, core.ErrNotExist) {
			t.Errorf("Stat(src) after replace error = %v, want ErrNotExist", err)
		}
	})

	t.Run("CrossBackendRename", func(t *testing.T) {
		b := newBackend(t)
		other := newBackend(t)
		p := seed(t, b, "file.txt", "x")

		if _, err := p.Rename(ctx, core.NewPath(other, "file.txt")); !errors.Is(err, core.ErrCrossDevice) {
			t.Errorf("Rename(cross-backend) error = %v, want ErrCrossDevice", err)
		}
		if _, err := p.Replace(ctx, core.NewPath(other, "file.txt")); !errors.Is(err, core.ErrCrossDevice) {
			t.Errorf("Replace(cross-backend) error = %v, want ErrCrossDevice", err)
		}
	})

	t.Run("HardLink", func(t *testing.T) {
		b := newBackend(t)
		p := seed(t, b, "orig.txt", "shared")
		link := core.NewPath(b, "hard.txt")

		err := p.LinkTo(ctx, link)
		if !cfg.HardLinks {
			if !errors.Is(err, core.ErrUnsupported) {
				t.Errorf("LinkTo() error = %v, want ErrUnsupported", err)
			}
			return
		}
		if err != nil {
			t.Fatalf("LinkTo() error = %v", err)
		}
		data, err := link.ReadBytes(ctx)
		if err != nil || string(data) != "shared" {
			t.Errorf("content via hard link = %q, %v, want %q", data, err, "shared")
		}
		same, err := p.SameFile(ctx, link)
		if err != nil || !same {
			t.Errorf("SameFile(orig, hard) = %v, %v, want true", same, err)
		}
	})

	t.Run("Resolve", func(t *testing.T) {
		b := newBackend(t)
		missing := core.NewPath(b, "nope/deeper.txt")

		if _, err := missing.Resolve(ctx, true); !errors.Is(err, core.ErrNotExist) {
			t.Errorf("Resolve(strict, missing) error = %v, want ErrNotExist", err)
		}
		if _, err := missing.Resolve(ctx, false); err != nil {
			t.Errorf("Resolve(missing) error = %v, want nil", err)
		}

		if !cfg.Resolve {
			return
		}
		target := seed(t, b, "real/target.txt", "x")
		link := core.NewPath(b, "alias.txt")
		if err := link.SymlinkTo(ctx, target); err != nil {
			t.Fatalf("SymlinkTo() error = %v", err)
		}
		resolved, err := link.Resolve(ctx, true)
		if err != nil {
			t.Fatalf("Resolve(link) error = %v", err)
		}
		if resolved.String() != target.String() {
			t.Errorf("Resolve(link) = %q, want %q", resolved, target)
		}
	})
}
