package fstest

import (
	"context"
	"errors"
	"testing"

	"github.com/lepaperwan/bandersnatch/fs/core"
)

// seed writes content to name on b, creating parents, and returns the Path.
func seed(t *testing.T, b core.Backend, name, content string) core.Path {
	t.Helper()
	ctx := context.Background()
	p := core.NewPath(b, name)
	if parent := p.Parent(); !parent.IsRoot() {
		if err := parent.Mkdir(ctx, core.WithParents(), core.WithExistOK()); err != nil {
			t.Fatalf("mkdir %s: setup failed: %v", parent, err)
		}
	}
	if _, err := p.WriteBytes(ctx, []byte(content)); err != nil {
		t.Fatalf("write %s: setup failed: %v", name, err)
	}
	return p
}

// TestMetadata validates the metadata query operations: stat, exists, the
// is_* family, ownership, and same-file identity.
func TestMetadata(t *testing.T, newBackend Factory, cfg Config) {
	ctx := context.Background()

	t.Run("StatNotExist", func(t *testing.T) {
		b := newBackend(t)
		p := core.NewPath(b, "missing.txt")

		if _, err := p.Stat(ctx); !errors.Is(err, core.ErrNotExist) {
			t.Errorf("Stat(missing) error = %v, want ErrNotExist", err)
		}
		if _, err := p.Lstat(ctx); !errors.Is(err, core.ErrNotExist) {
			t.Errorf("Lstat(missing) error = %v, want ErrNotExist", err)
		}
		exists, err := p.Exists(ctx)
		if err != nil {
			t.Fatalf("Exists(missing) error = %v", err)
		}
		if exists {
			t.Error("Exists(missing) = true, want false")
		}
	})

	t.Run("QueriesOnMissingFail", func(t *testing.T) {
		b := newBackend(t)
		p := core.NewPath(b, "missing.txt")

		if _, err := p.IsDir(ctx); !errors.Is(err, core.ErrNotExist) {
			t.Errorf("IsDir(missing) error = %v, want ErrNotExist", err)
		}
		if _, err := p.IsFile(ctx); !errors.Is(err, core.ErrNotExist) {
			t.Errorf("IsFile(missing) error = %v, want ErrNotExist", err)
		}
		if _, err := p.IsSymlink(ctx); !errors.Is(err, core.ErrNotExist) {
			t.Errorf("IsSymlink(missing) error = %v, want ErrNotExist", err)
		}
	})

	t.Run("StatFile", func(t *testing.T) {
		b := newBackend(t)
		p := seed(t, b, "file.txt", "hello")

		info, err := p.Stat(ctx)
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if info.Size() != 5 {
			t.Errorf("Stat().Size() = %d, want 5", info.Size())
		}
		if !info.Mode().IsRegular() {
			t.Errorf("Stat().Mode() = %v, want regular", info.Mode())
		}
	})

	t.Run("FileKinds", func(t *testing.T) {
		b := newBackend(t)
		p := seed(t, b, "dir/file.txt", "x")
		dir := core.NewPath(b, "dir")

		checks := []struct {
			name string
			got  func(core.Path) (bool, error)
			p    core.Path
			want bool
		}{
			{"IsFile(file)", func(q core.Path) (bool, error) { return q.IsFile(ctx) }, p, true},
			{"IsDir(file)", func(q core.Path) (bool, error) { return q.IsDir(ctx) }, p, false},
			{"IsDir(dir)", func(q core.Path) (bool, error) { return q.IsDir(ctx) }, dir, true},
			{"IsFile(dir)", func(q core.Path) (bool, error) { return q.IsFile(ctx) }, dir, false},
			{"IsSymlink(file)", func(q core.Path) (bool, error) { return q.IsSymlink(ctx) }, p, false},
			{"IsBlockDevice(file)", func(q core.Path) (bool, error) { return q.IsBlockDevice(ctx) }, p, false},
			{"IsCharDevice(file)", func(q core.Path) (bool, error) { return q.IsCharDevice(ctx) }, p, false},
			{"IsFIFO(file)", func(q core.Path) (bool, error) { return q.IsFIFO(ctx) }, p, false},
			{"IsSocket(file)", func(q core.Path) (bool, error) { return q.IsSocket(ctx) }, p, false},
			{"IsMount(file)", func(q core.Path) (bool, error) { return q.IsMount(ctx) }, p, false},
		}
		for _, check := range checks {
			got, err := check.got(check.p)
			if err != nil {
				t.Errorf("%s error = %v", check.name, err)
				continue
			}
			if got != check.want {
				t.Errorf("%s = %v, want %v", check.name, got, check.want)
			}
		}
	})

	t.Run("Symlink", func(t *testing.T) {
		b := newBackend(t)
		target := seed(t, b, "target.txt", "data")
		link := core.NewPath(b, "link.txt")

		if err := link.SymlinkTo(ctx, target); err != nil {
			t.Fatalf("SymlinkTo() error = %v", err)
		}
		isLink, err := link.IsSymlink(ctx)
		if err != nil {
			t.Fatalf("IsSymlink(link) error = %v", err)
		}
		if !isLink {
			t.Error("IsSymlink(link) = false, want true")
		}
		// Stat follows the link; IsFile through it sees the target.
		isFile, err := link.IsFile(ctx)
		if err != nil {
			t.Fatalf("IsFile(link) error = %v", err)
		}
		if !isFile {
			t.Error("IsFile(link) = false, want true")
		}
		dest, err := link.Readlink(ctx)
		if err != nil {
			t.Fatalf("Readlink() error = %v", err)
		}
		if dest.String() != target.String() {
			t.Errorf("Readlink() = %q, want %q", dest, target)
		}
	})

	t.Run("OwnerGroup", func(t *testing.T) {
		b := newBackend(t)
		p := seed(t, b, "file.txt", "x")

		owner, oerr := p.Owner(ctx)
		group, gerr := p.Group(ctx)
		if cfg.Ownership {
			if oerr != nil || owner == "" {
				t.Errorf("Owner() = %q, %v, want non-empty name", owner, oerr)
			}
			if gerr != nil || group == "" {
				t.Errorf("Group() = %q, %v, want non-empty name", group, gerr)
			}
		} else {
			if !errors.Is(oerr, core.ErrUnsupported) {
				t.Errorf("Owner() error = %v, want ErrUnsupported", oerr)
			}
			if !errors.Is(gerr, core.ErrUnsupported) {
				t.Errorf("Group() error = %v, want ErrUnsupported", gerr)
			}
		}
	})

	t.Run("SameFile", func(t *testing.T) {
		b := newBackend(t)
		p := seed(t, b, "a.txt", "x")
		q := seed(t, b, "b.txt", "x")

		same, err := p.SameFile(ctx, core.NewPath(b, "a.txt"))
		if err != nil {
			t.Fatalf("SameFile(p, p) error = %v", err)
		}
		if !same {
			t.Error("SameFile(p, p) = false, want true")
		}
		same, err = p.SameFile(ctx, q)
		if err != nil {
			t.Fatalf("SameFile(p, q) error = %v", err)
		}
		if same {
			t.Error("SameFile(p, q) = true, want false")
		}
	})
}
