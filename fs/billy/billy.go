package billy

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/lepaperwan/bandersnatch/fs/core"
)

// Option configures backend creation.
// Reserved for future extensibility.
type Option func(*config)

type config struct {
	// Reserved for future options
}

// NewLocal creates a go-billy-backed local backend rooted at dir.
// All backend paths are relative to dir; the osfs chroot prevents
// escaping it.
func NewLocal(dir string, _ ...Option) *LocalFS {
	return &LocalFS{
		backendFS: backendFS{bfs: osfs.New(dir)},
		root:      filepath.Clean(dir),
	}
}

// NewMemory creates a go-billy-backed in-memory backend.
// The filesystem is initially empty.
func NewMemory(_ ...Option) *MemoryFS {
	return &MemoryFS{
		backendFS: backendFS{bfs: memfs.New()},
		locks:     newLockTable(),
	}
}

// normalize converts backend paths to clean forward-slash form.
func normalize(name string) string {
	return filepath.ToSlash(filepath.Clean(name))
}

// backendFS holds the operations shared by the local and memory backends.
// Billy's blocking calls are short syscalls (or map lookups for memfs); a
// context check at every entry point is the suspension point, and long
// transfers check again between chunks inside File.
type backendFS struct {
	bfs billy.Filesystem
}

// Unwrap returns the underlying billy.Filesystem for integration with
// other go-billy consumers.
func (b *backendFS) Unwrap() billy.Filesystem {
	return b.bfs
}

// dirEntry wraps fs.FileInfo to implement fs.DirEntry.
type dirEntry struct {
	info fs.FileInfo
}

func (d *dirEntry) Name() string               { return d.info.Name() }
func (d *dirEntry) IsDir() bool                { return d.info.IsDir() }
func (d *dirEntry) Type() fs.FileMode          { return d.info.Mode().Type() }
func (d *dirEntry) Info() (fs.FileInfo, error) { return d.info, nil }

// Stat returns file metadata, following symlinks.
func (b *backendFS) Stat(ctx context.Context, name string) (fs.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.PathError("stat", name, err)
	}
	return b.bfs.Stat(normalize(name))
}

// Lstat returns file metadata without following symlinks.
func (b *backendFS) Lstat(ctx context.Context, name string) (fs.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.PathError("lstat", name, err)
	}
	return b.bfs.Lstat(normalize(name))
}

// OpenFile opens a file with the specified flags and permissions.
// The returned handle records its capabilities from the flags.
func (b *backendFS) OpenFile(ctx context.Context, name string, flag int, perm fs.FileMode) (core.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.PathError("open", name, err)
	}
	name = normalize(name)
	f, err := b.bfs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return newFile(f, b.bfs, name, flag), nil
}

// ReadDir reads the named directory and returns its entries sorted by
// name, so listing order is stable for an unmodified directory.
func (b *backendFS) ReadDir(ctx context.Context, name string) ([]fs.DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.PathError("readdir", name, err)
	}
	infos, err := b.bfs.ReadDir(normalize(name))
	if err != nil {
		return nil, err
	}
	entries := make([]fs.DirEntry, len(infos))
	for i, info := range infos {
		entries[i] = &dirEntry{info: info}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// Mkdir creates a single directory. Billy only exposes MkdirAll, so the
// non-recursive contract is enforced with explicit existence checks.
func (b *backendFS) Mkdir(ctx context.Context, name string, perm fs.FileMode) error {
	if err := ctx.Err(); err != nil {
		return core.PathError("mkdir", name, err)
	}
	name = normalize(name)
	if _, err := b.bfs.Stat(name); err == nil {
		return core.PathError("mkdir", name, core.ErrExist)
	}
	parent := filepath.Dir(name)
	if parent != "." && parent != "/" {
		if _, err := b.bfs.Stat(parent); err != nil {
			return core.PathError("mkdir", name, core.ErrNotExist)
		}
	}
	return b.bfs.MkdirAll(name, perm)
}

// MkdirAll creates the named directory along with any missing parents.
func (b *backendFS) MkdirAll(ctx context.Context, name string, perm fs.FileMode) error {
	if err := ctx.Err(); err != nil {
		return core.PathError("mkdir", name, err)
	}
	return b.bfs.MkdirAll(normalize(name), perm)
}

// Remove removes the named file or empty directory.
// A directory that still has entries fails with ErrNotEmpty.
func (b *backendFS) Remove(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return core.PathError("remove", name, err)
	}
	name = normalize(name)
	// Lstat so a symlink is removed itself, dangling or not.
	info, err := b.bfs.Lstat(name)
	if err != nil {
		return err
	}
	if info.IsDir() {
		entries, err := b.bfs.ReadDir(name)
		if err != nil {
			return err
		}
		if len(entries) > 0 {
			return core.PathError("remove", name, core.ErrNotEmpty)
		}
	}
	return b.bfs.Remove(name)
}

// Rename moves oldname to newname.
func (b *backendFS) Rename(ctx context.Context, oldname, newname string) error {
	if err := ctx.Err(); err != nil {
		return core.PathError("rename", oldname, err)
	}
	return translateLinkErr(b.bfs.Rename(normalize(oldname), normalize(newname)))
}

// Chtimes changes access and modification times of the named path.
// Memfs does not track times explicitly, so the base implementation only
// verifies existence; LocalFS overrides with a real time update.
func (b *backendFS) Chtimes(ctx context.Context, name string, _, _ time.Time) error {
	if err := ctx.Err(); err != nil {
		return core.PathError("chtimes", name, err)
	}
	_, err := b.bfs.Stat(normalize(name))
	return err
}

// TempFile creates a uniquely named file in dir from prefix plus a random
// suffix, opened for reading and writing.
func (b *backendFS) TempFile(ctx context.Context, dir, prefix string) (core.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.PathError("tempfile", dir, err)
	}
	f, err := b.bfs.TempFile(normalize(dir), prefix)
	if err != nil {
		return nil, err
	}
	return newFile(f, b.bfs, normalize(f.Name()), os.O_RDWR), nil
}

// Symlink creates a symbolic link at newname pointing to oldname.
func (b *backendFS) Symlink(ctx context.Context, oldname, newname string) error {
	if err := ctx.Err(); err != nil {
		return core.PathError("symlink", newname, err)
	}
	return b.bfs.Symlink(oldname, normalize(newname))
}

// Readlink returns the destination of the named symbolic link.
func (b *backendFS) Readlink(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", core.PathError("readlink", name, err)
	}
	return b.bfs.Readlink(normalize(name))
}

// translateLinkErr maps the OS cross-device errno onto core.ErrCrossDevice
// while preserving the original path information.
func translateLinkErr(err error) error {
	if err == nil {
		return nil
	}
	if isCrossDevice(err) {
		var op, path string
		var pe *fs.PathError
		var le *os.LinkError
		switch {
		case errors.As(err, &pe):
			op, path = pe.Op, pe.Path
		case errors.As(err, &le):
			op, path = le.Op, le.Old
		default:
			op = "rename"
		}
		return core.PathError(op, path, core.ErrCrossDevice)
	}
	return err
}
