package core

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"time"
)

// Path is an immutable handle to a location on a backend: the backend plus a
// normalized, slash-separated, backend-relative name. A Path is a value type
// with no ownership over storage state; it may reference a resource that
// does not exist. Lexical operations (Join, Parent, Base, ...) are pure and
// never touch the backend; only the operations taking a context perform I/O.
type Path struct {
	backend Backend
	name    string
}

// NewPath returns a Path on b addressing the joined elements.
// Joining and cleaning are purely lexical; no I/O occurs.
func NewPath(b Backend, elems ...string) Path {
	return Path{backend: b, name: normalize(path.Join(elems...))}
}

// normalize cleans a slash-separated name. The empty name and names that
// clean to "/" collapse to ".", the backend root.
func normalize(name string) string {
	name = path.Clean("/" + name)
	if name == "/" {
		return "."
	}
	return name[1:]
}

// Backend returns the backend the path addresses.
func (p Path) Backend() Backend { return p.backend }

// String returns the normalized backend-relative name.
func (p Path) String() string { return p.name }

// Base returns the final path element, or "." for the backend root.
func (p Path) Base() string { return path.Base(p.name) }

// Ext returns the extension of the final path element, including the dot.
func (p Path) Ext() string { return path.Ext(p.name) }

// Parent returns the path of the containing directory.
// The parent of the backend root is the root itself.
func (p Path) Parent() Path {
	return Path{backend: p.backend, name: normalize(path.Dir(p.name))}
}

// Join returns a new Path with the elements appended.
func (p Path) Join(elems ...string) Path {
	return NewPath(p.backend, append([]string{p.name}, elems...)...)
}

// IsRoot reports whether the path addresses the backend root.
func (p Path) IsRoot() bool { return p.name == "." }

// Match reports whether the path name matches the shell pattern.
// Purely lexical; the pattern is matched against the full relative name.
func (p Path) Match(pattern string) (bool, error) {
	return path.Match(pattern, p.name)
}

// Stat returns metadata for the path, following symlinks.
func (p Path) Stat(ctx context.Context) (fs.FileInfo, error) {
	return p.backend.Stat(ctx, p.name)
}

// Lstat returns metadata for the path without following symlinks.
func (p Path) Lstat(ctx context.Context) (fs.FileInfo, error) {
	return p.backend.Lstat(ctx, p.name)
}

// Exists reports whether the path exists.
// Unlike the other metadata queries, a missing path is not an error.
func (p Path) Exists(ctx context.Context) (bool, error) {
	_, err := p.Stat(ctx)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotExist) {
		return false, nil
	}
	return false, err
}

// IsDir reports whether the path is a directory.
func (p Path) IsDir(ctx context.Context) (bool, error) {
	info, err := p.Stat(ctx)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

// IsFile reports whether the path is a regular file.
func (p Path) IsFile(ctx context.Context) (bool, error) {
	info, err := p.Stat(ctx)
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// IsSymlink reports whether the path is a symbolic link.
func (p Path) IsSymlink(ctx context.Context) (bool, error) {
	info, err := p.Lstat(ctx)
	if err != nil {
		return false, err
	}
	return info.Mode()&fs.ModeSymlink != 0, nil
}

// IsBlockDevice reports whether the path is a block device.
func (p Path) IsBlockDevice(ctx context.Context) (bool, error) {
	return p.hasMode(ctx, fs.ModeDevice, fs.ModeCharDevice)
}

// IsCharDevice reports whether the path is a character device.
func (p Path) IsCharDevice(ctx context.Context) (bool, error) {
	return p.hasMode(ctx, fs.ModeDevice|fs.ModeCharDevice, 0)
}

// IsFIFO reports whether the path is a named pipe.
func (p Path) IsFIFO(ctx context.Context) (bool, error) {
	return p.hasMode(ctx, fs.ModeNamedPipe, 0)
}

// IsSocket reports whether the path is a socket.
func (p Path) IsSocket(ctx context.Context) (bool, error) {
	return p.hasMode(ctx, fs.ModeSocket, 0)
}

// hasMode reports whether the path's mode has all bits of want set and
// none of the bits of reject.
func (p Path) hasMode(ctx context.Context, want, reject fs.FileMode) (bool, error) {
	info, err := p.Stat(ctx)
	if err != nil {
		return false, err
	}
	mode := info.Mode()
	return mode&want == want && mode&reject == 0, nil
}

// IsMount reports whether the path is a mount point.
// Backends without device identity report false for every existing path.
func (p Path) IsMount(ctx context.Context) (bool, error) {
	info, err := p.Stat(ctx)
	if err != nil {
		return false, err
	}
	if !info.IsDir() {
		return false, nil
	}
	if mb, ok := p.backend.(interface {
		IsMount(ctx context.Context, name string) (bool, error)
	}); ok {
		return mb.IsMount(ctx, p.name)
	}
	return false, nil
}

// Owner returns the name of the user owning the path.
// Fails with ErrUnsupported when the backend does not track ownership.
func (p Path) Owner(ctx context.Context) (string, error) {
	ob, ok := p.backend.(OwnerBackend)
	if !ok {
		return "", PathError("owner", p.name, ErrUnsupported)
	}
	return ob.Owner(ctx, p.name)
}

// Group returns the name of the group owning the path.
// Fails with ErrUnsupported when the backend does not track ownership.
func (p Path) Group(ctx context.Context) (string, error) {
	ob, ok := p.backend.(OwnerBackend)
	if !ok {
		return "", PathError("group", p.name, ErrUnsupported)
	}
	return ob.Group(ctx, p.name)
}

// SameFile reports whether p and other address the same underlying file.
func (p Path) SameFile(ctx context.Context, other Path) (bool, error) {
	a, err := p.Stat(ctx)
	if err != nil {
		return false, err
	}
	b, err := other.Stat(ctx)
	if err != nil {
		return false, err
	}
	if os.SameFile(a, b) {
		return true, nil
	}
	// Backends without file identity fall back to resolved-name equality.
	if p.backend != other.backend {
		return false, nil
	}
	ra, err := p.Resolve(ctx, false)
	if err != nil {
		return false, err
	}
	rb, err := other.Resolve(ctx, false)
	if err != nil {
		return false, err
	}
	return ra.name == rb.name, nil
}

// MkdirConfig is the resolved configuration for a Mkdir call.
type MkdirConfig struct {
	// Mode is the permission bits for created directories (before umask).
	Mode fs.FileMode

	// Parents creates missing ancestor directories as needed.
	Parents bool

	// ExistOK suppresses the ErrExist failure when the directory is
	// already present.
	ExistOK bool
}

// MkdirOption configures a Mkdir call.
type MkdirOption func(*MkdirConfig)

// WithMode sets the permission bits for created directories.
func WithMode(mode fs.FileMode) MkdirOption {
	return func(c *MkdirConfig) { c.Mode = mode }
}

// WithParents creates missing ancestors, like mkdir -p.
func WithParents() MkdirOption {
	return func(c *MkdirConfig) { c.Parents = true }
}

// WithExistOK tolerates an already existing directory.
func WithExistOK() MkdirOption {
	return func(c *MkdirConfig) { c.ExistOK = true }
}

// Mkdir creates the directory at the path.
// By default it fails with ErrExist if the path already exists and with
// ErrNotExist if the parent is missing; see WithParents and WithExistOK.
func (p Path) Mkdir(ctx context.Context, opts ...MkdirOption) error {
	cfg := MkdirConfig{Mode: 0o777}
	for _, opt := range opts {
		opt(&cfg)
	}

	var err error
	if cfg.Parents {
		err = p.backend.MkdirAll(ctx, p.name, cfg.Mode)
	} else {
		err = p.backend.Mkdir(ctx, p.name, cfg.Mode)
	}
	if err != nil && cfg.ExistOK && errors.Is(err, ErrExist) {
		// Only a present directory satisfies exist_ok; an existing file
		// at the path is still a failure.
		if isDir, statErr := p.IsDir(ctx); statErr == nil && isDir {
			return nil
		}
	}
	return err
}

// Touch creates the file if it is missing and updates its modification
// time if it exists, like touch(1). Created files use mode 0666 before
// umask.
func (p Path) Touch(ctx context.Context) error {
	f, err := p.backend.OpenFile(ctx, p.name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o666)
	if err == nil {
		return f.Close()
	}
	if !errors.Is(err, ErrExist) {
		return err
	}
	now := time.Now()
	return p.backend.Chtimes(ctx, p.name, now, now)
}

// Chmod changes the permission bits of the path, following symlinks.
// Fails with ErrUnsupported when the backend does not track modes.
func (p Path) Chmod(ctx context.Context, mode fs.FileMode) error {
	mb, ok := p.backend.(MetadataBackend)
	if !ok {
		return PathError("chmod", p.name, ErrUnsupported)
	}
	return mb.Chmod(ctx, p.name, mode)
}

// Lchmod changes the permission bits of the path without following symlinks.
func (p Path) Lchmod(ctx context.Context, mode fs.FileMode) error {
	mb, ok := p.backend.(MetadataBackend)
	if !ok {
		return PathError("lchmod", p.name, ErrUnsupported)
	}
	return mb.Lchmod(ctx, p.name, mode)
}

// Unlink removes the file or symlink at the path. With missingOK, a path
// that does not exist is not an error.
func (p Path) Unlink(ctx context.Context, missingOK bool) error {
	err := p.backend.Remove(ctx, p.name)
	if err != nil && missingOK && errors.Is(err, ErrNotExist) {
		return nil
	}
	return err
}

// Rmdir removes the directory at the path.
// It fails with ErrNotEmpty if the directory still has entries and with
// fs.ErrInvalid if the path is not a directory.
func (p Path) Rmdir(ctx context.Context) error {
	info, err := p.Stat(ctx)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return PathError("rmdir", p.name, fs.ErrInvalid)
	}
	return p.backend.Remove(ctx, p.name)
}

// Rename moves the path to target and returns target. Whether an existing
// target is replaced is backend-defined; use Replace for overwrite
// semantics. Moving between distinct backends fails with ErrCrossDevice.
func (p Path) Rename(ctx context.Context, target Path) (Path, error) {
	if target.backend != p.backend {
		return Path{}, PathError("rename", p.name, ErrCrossDevice)
	}
	if err := p.backend.Rename(ctx, p.name, target.name); err != nil {
		return Path{}, err
	}
	return target, nil
}

// Replace moves the path onto target, atomically replacing any existing
// file there, and returns target.
func (p Path) Replace(ctx context.Context, target Path) (Path, error) {
	if target.backend != p.backend {
		return Path{}, PathError("replace", p.name, ErrCrossDevice)
	}
	if err := p.backend.Replace(ctx, p.name, target.name); err != nil {
		return Path{}, err
	}
	return target, nil
}

// SymlinkTo makes the path a symbolic link pointing to target.
func (p Path) SymlinkTo(ctx context.Context, target Path) error {
	sb, ok := p.backend.(SymlinkBackend)
	if !ok {
		return PathError("symlink", p.name, ErrUnsupported)
	}
	return sb.Symlink(ctx, target.name, p.name)
}

// LinkTo creates a hard link at target referring to the path.
func (p Path) LinkTo(ctx context.Context, target Path) error {
	sb, ok := p.backend.(SymlinkBackend)
	if !ok {
		return PathError("link", p.name, ErrUnsupported)
	}
	return sb.Link(ctx, p.name, target.name)
}

// Readlink returns the destination of the symbolic link at the path.
func (p Path) Readlink(ctx context.Context) (Path, error) {
	sb, ok := p.backend.(SymlinkBackend)
	if !ok {
		return Path{}, PathError("readlink", p.name, ErrUnsupported)
	}
	dest, err := sb.Readlink(ctx, p.name)
	if err != nil {
		return Path{}, err
	}
	return NewPath(p.backend, dest), nil
}

// Resolve normalizes the path and, when the backend supports it, follows
// symlinks to the canonical location. With strict, a missing path fails
// with ErrNotExist; otherwise the lexically normalized path is returned
// as far as resolution could proceed.
func (p Path) Resolve(ctx context.Context, strict bool) (Path, error) {
	if rb, ok := p.backend.(ResolveBackend); ok {
		real, err := rb.RealPath(ctx, p.name)
		if err == nil {
			return Path{backend: p.backend, name: normalize(real)}, nil
		}
		if strict || !errors.Is(err, ErrNotExist) {
			return Path{}, err
		}
		// Non-strict resolution of a missing path falls back to the
		// lexical normalization below.
	}
	if strict {
		if _, err := p.Stat(ctx); err != nil {
			return Path{}, err
		}
	}
	return Path{backend: p.backend, name: normalize(p.name)}, nil
}

// Open opens the file at the path for reading.
func (p Path) Open(ctx context.Context) (File, error) {
	return p.backend.OpenFile(ctx, p.name, os.O_RDONLY, 0)
}

// OpenFile opens the file at the path with the given os package flags and,
// when creating, the given permission bits.
func (p Path) OpenFile(ctx context.Context, flag int, perm fs.FileMode) (File, error) {
	return p.backend.OpenFile(ctx, p.name, flag, perm)
}

// ReadBytes reads the whole file at the path, releasing the handle on
// every exit path.
func (p Path) ReadBytes(ctx context.Context) ([]byte, error) {
	f, err := p.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return f.ReadAll(ctx)
}

// ReadText reads the whole file at the path as a string.
func (p Path) ReadText(ctx context.Context) (string, error) {
	data, err := p.ReadBytes(ctx)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteBytes writes data to the file at the path, creating or truncating
// it, and returns the number of bytes written. The handle is released on
// every exit path, including transfer failure.
func (p Path) WriteBytes(ctx context.Context, data []byte) (int, error) {
	f, err := p.OpenFile(ctx, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	n, err := f.Write(ctx, data)
	if err != nil {
		return n, err
	}
	return n, f.Close()
}

// WriteText writes text to the file at the path, creating or truncating it.
func (p Path) WriteText(ctx context.Context, text string) (int, error) {
	return p.WriteBytes(ctx, []byte(text))
}
