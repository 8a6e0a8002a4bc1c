package billy

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	"github.com/lepaperwan/bandersnatch/fs/core"
)

// LocalFS is the disk-backed backend. Billy's osfs chroot serves the
// shared operations; capabilities billy does not model (modes, ownership,
// hard links, symlink resolution, advisory locks) go through the real OS
// path directly.
type LocalFS struct {
	backendFS
	root string
}

// real converts a backend path to the absolute OS path under the root.
// Backend paths are pre-normalized, so the join cannot escape the root.
func (l *LocalFS) real(name string) string {
	return filepath.Join(l.root, filepath.FromSlash(normalize(name)))
}

// Type returns BackendLocal.
func (l *LocalFS) Type() core.BackendType {
	return core.BackendLocal
}

// Replace moves oldname onto newname, atomically replacing any existing
// file. The move is a single rename on POSIX and a MoveFileEx replace on
// Windows; either way there is no observable intermediate state.
func (l *LocalFS) Replace(ctx context.Context, oldname, newname string) error {
	if err := ctx.Err(); err != nil {
		return core.PathError("replace", oldname, err)
	}
	return translateLinkErr(atomic.ReplaceFile(l.real(oldname), l.real(newname)))
}

// Chmod changes the mode of the named path, following symlinks.
func (l *LocalFS) Chmod(ctx context.Context, name string, mode fs.FileMode) error {
	if err := ctx.Err(); err != nil {
		return core.PathError("chmod", name, err)
	}
	return os.Chmod(l.real(name), mode)
}

// Lchmod changes the mode of the named path without following symlinks.
// POSIX has no portable symlink chmod, so a symlink fails with
// ErrUnsupported; any other path behaves like Chmod.
func (l *LocalFS) Lchmod(ctx context.Context, name string, mode fs.FileMode) error {
	if err := ctx.Err(); err != nil {
		return core.PathError("lchmod", name, err)
	}
	info, err := os.Lstat(l.real(name))
	if err != nil {
		return err
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		return core.PathError("lchmod", name, core.ErrUnsupported)
	}
	return os.Chmod(l.real(name), mode)
}

// Chtimes changes the access and modification times of the named path.
// A zero time value preserves the corresponding existing time.
func (l *LocalFS) Chtimes(ctx context.Context, name string, atime, mtime time.Time) error {
	if err := ctx.Err(); err != nil {
		return core.PathError("chtimes", name, err)
	}
	return os.Chtimes(l.real(name), atime, mtime)
}

// Link creates a hard link at newname referring to oldname.
func (l *LocalFS) Link(ctx context.Context, oldname, newname string) error {
	if err := ctx.Err(); err != nil {
		return core.PathError("link", newname, err)
	}
	return translateLinkErr(os.Link(l.real(oldname), l.real(newname)))
}

// RealPath resolves symlinks in the named path and returns the canonical
// backend-relative location. Resolution escaping the backend root fails
// with fs.ErrInvalid.
func (l *LocalFS) RealPath(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", core.PathError("resolve", name, err)
	}
	resolved, err := filepath.EvalSymlinks(l.real(name))
	if err != nil {
		return "", err
	}
	// The root may itself sit behind symlinks; compare like with like.
	realRoot, err := filepath.EvalSymlinks(l.root)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(realRoot, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", core.PathError("resolve", name, fs.ErrInvalid)
	}
	return filepath.ToSlash(rel), nil
}

// Owner returns the name of the user owning the path.
func (l *LocalFS) Owner(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", core.PathError("owner", name, err)
	}
	info, err := os.Stat(l.real(name))
	if err != nil {
		return "", err
	}
	return lookupOwner(info)
}

// Group returns the name of the group owning the path.
func (l *LocalFS) Group(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", core.PathError("group", name, err)
	}
	info, err := os.Stat(l.real(name))
	if err != nil {
		return "", err
	}
	return lookupGroup(info)
}

// IsMount reports whether the named directory is a mount point, by
// comparing its device identity with its parent's.
func (l *LocalFS) IsMount(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, core.PathError("stat", name, err)
	}
	info, err := os.Stat(l.real(name))
	if err != nil {
		return false, err
	}
	if !info.IsDir() {
		return false, nil
	}
	parent, err := os.Stat(filepath.Dir(l.real(name)))
	if err != nil {
		return false, err
	}
	return differentDevice(info, parent) || os.SameFile(info, parent), nil
}

// Lock returns the advisory flock token for the named path. The token
// lives in a ".<name>.lock" sibling file so locking never creates or
// truncates the protected file itself.
func (l *LocalFS) Lock(name string) core.FileLock {
	name = normalize(name)
	dir, base := filepath.Split(l.real(name))
	return newLocalLock(name, filepath.Join(dir, "."+base+".lock"))
}

// interface checks
var (
	_ core.Backend         = (*LocalFS)(nil)
	_ core.MetadataBackend = (*LocalFS)(nil)
	_ core.OwnerBackend    = (*LocalFS)(nil)
	_ core.SymlinkBackend  = (*LocalFS)(nil)
	_ core.TempBackend     = (*LocalFS)(nil)
	_ core.ResolveBackend  = (*LocalFS)(nil)
)
