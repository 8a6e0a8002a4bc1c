package core

import (
	"context"
	"io/fs"
	"time"
)

// BackendType represents the underlying type of storage backend.
type BackendType int

const (
	// BackendUnknown indicates the backend type is unknown or unspecified.
	BackendUnknown BackendType = iota
	// BackendLocal indicates a local filesystem (disk-backed).
	BackendLocal
	// BackendMemory indicates an in-memory filesystem.
	BackendMemory
	// BackendRemote indicates a remote filesystem (networked or object storage).
	BackendRemote
)

// String returns a string representation of the BackendType.
func (t BackendType) String() string {
	switch t {
	case BackendLocal:
		return "local"
	case BackendMemory:
		return "memory"
	case BackendRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// Backend is the primary storage contract combining all required capabilities.
//
// All storage backends MUST implement this interface, which is composed of
// four sub-interfaces representing different categories of operations:
// ReadBackend, WriteBackend, ManageBackend, and LockBackend. The abstraction
// assumes nothing about the medium beyond "path-addressable, supports at
// least read and rename"; lock and atomic-move support may be emulated.
//
// Optional capabilities (MetadataBackend, OwnerBackend, SymlinkBackend,
// TempBackend, ResolveBackend) are discovered with type assertions. Callers
// going through Path never need the assertions themselves; unsupported
// operations fail with ErrUnsupported.
//
// Every method that touches storage takes a context.Context and MUST return
// promptly once the context is cancelled. Backends whose underlying
// primitives block uninterruptibly must run them off the calling goroutine
// and abandon the wait on cancellation.
type Backend interface {
	ReadBackend
	WriteBackend
	ManageBackend
	LockBackend

	// Type returns the underlying backend type.
	// This allows callers to introspect whether the backend is backed by a
	// real disk, in-memory storage, or remote storage.
	Type() BackendType
}

// ReadBackend defines metadata and read access operations.
// All backends MUST support this interface.
type ReadBackend interface {
	// Stat returns metadata for the named path, following symlinks.
	// Fails with ErrNotExist if the path does not exist and with
	// ErrPermission on access failure. Errors are wrapped in *fs.PathError.
	Stat(ctx context.Context, name string) (fs.FileInfo, error)

	// Lstat returns metadata for the named path without following symlinks.
	// If the path is a symlink, the returned fs.FileInfo describes the link
	// itself, not its target.
	Lstat(ctx context.Context, name string) (fs.FileInfo, error)

	// OpenFile opens a file with the specified flags and permissions.
	// The flags are the os package bitmask (O_RDONLY, O_WRONLY, O_RDWR,
	// O_CREATE, O_TRUNC, O_APPEND, O_EXCL). If the file is created, the
	// permission mode perm is used (before umask).
	//
	// The returned File records its readable/writable/seekable capabilities
	// from the flags; operations outside those capabilities fail with
	// ErrNotReadable, ErrNotWritable, or ErrNotSeekable.
	OpenFile(ctx context.Context, name string, flag int, perm fs.FileMode) (File, error)

	// ReadDir reads the named directory and returns its entries.
	// Iteration order is backend-defined but must be stable for an
	// unmodified directory; concurrent mutation during listing yields
	// backend-defined (never crashing) results.
	ReadDir(ctx context.Context, name string) ([]fs.DirEntry, error)
}

// WriteBackend defines creation operations.
type WriteBackend interface {
	// Mkdir creates a new directory with the given permission bits.
	// It fails with ErrExist if the path already exists and with
	// ErrNotExist if the parent is missing.
	Mkdir(ctx context.Context, name string, perm fs.FileMode) error

	// MkdirAll creates a directory along with any missing parents.
	// If the path already exists as a directory, MkdirAll does nothing.
	MkdirAll(ctx context.Context, name string, perm fs.FileMode) error

	// Chtimes changes the access and modification times of the named path.
	// A zero time value preserves the corresponding existing time.
	Chtimes(ctx context.Context, name string, atime, mtime time.Time) error
}

// ManageBackend defines structural mutation operations.
type ManageBackend interface {
	// Remove removes the named file or empty directory.
	// It fails with ErrNotExist if the path is missing and with
	// ErrNotEmpty if the path is a directory that still has entries.
	Remove(ctx context.Context, name string) error

	// Rename moves oldname to newname. Whether an existing newname is
	// replaced is backend-defined; use Replace when overwrite semantics
	// are required. Fails with ErrCrossDevice if the backend cannot
	// perform the move atomically across the given locations.
	Rename(ctx context.Context, oldname, newname string) error

	// Replace moves oldname onto newname, atomically replacing any
	// existing file at newname. This is the primitive behind Rewrite and
	// must have no observable intermediate state on backends that support
	// atomic moves. Fails with ErrCrossDevice when the locations cannot
	// share an atomic move.
	Replace(ctx context.Context, oldname, newname string) error
}

// LockBackend defines advisory lock support.
//
// Locks are keyed by path and cooperative: only other callers that acquire
// the same lock respect the exclusion. Backends without a native lock
// primitive may emulate one (for example with an in-process table).
type LockBackend interface {
	// Lock returns the advisory lock keyed by the named path.
	// The lock is created unlocked; acquisition state lives in the
	// returned FileLock, not in the backend.
	Lock(name string) FileLock
}

// MetadataBackend defines permission-bit operations.
//
// Use a type assertion to check support; Path.Chmod degrades to
// ErrUnsupported when the backend lacks this capability. Object storage
// and in-memory backends typically do not track permission bits.
type MetadataBackend interface {
	// Chmod changes the mode of the named path, following symlinks.
	Chmod(ctx context.Context, name string, mode fs.FileMode) error

	// Lchmod changes the mode of the named path without following symlinks.
	// Fails with ErrUnsupported on platforms without symlink modes.
	Lchmod(ctx context.Context, name string, mode fs.FileMode) error
}

// OwnerBackend defines ownership queries.
type OwnerBackend interface {
	// Owner returns the name of the user owning the path.
	Owner(ctx context.Context, name string) (string, error)

	// Group returns the name of the group owning the path.
	Group(ctx context.Context, name string) (string, error)
}

// SymlinkBackend defines symbolic and hard link operations.
type SymlinkBackend interface {
	// Symlink creates a symbolic link at newname pointing to oldname.
	// The oldname target is stored as-is; broken links are valid and
	// detectable via Lstat.
	Symlink(ctx context.Context, oldname, newname string) error

	// Link creates a hard link at newname referring to oldname.
	// Fails with ErrCrossDevice when the names are on distinct filesystems.
	Link(ctx context.Context, oldname, newname string) error

	// Readlink returns the destination of the named symbolic link.
	Readlink(ctx context.Context, name string) (string, error)
}

// TempBackend defines temporary file creation.
//
// Rewrite requires this capability: the staged temporary file must live in
// the target's directory so the final move stays on one filesystem.
type TempBackend interface {
	// TempFile creates a uniquely named file in dir, opened for reading
	// and writing, with names built from prefix plus a random suffix.
	// The caller is responsible for removing the file when no longer needed.
	TempFile(ctx context.Context, dir, prefix string) (File, error)
}

// ResolveBackend defines symlink-following path resolution.
type ResolveBackend interface {
	// RealPath returns the backend path with all symlinks resolved.
	// Fails with ErrNotExist when a traversed component is missing.
	RealPath(ctx context.Context, name string) (string, error)
}

// File represents one open backend handle: the asynchronous analogue of a
// raw byte-oriented file. A File owns exactly one cursor; operations on a
// single File execute in issue order, and operations on distinct Files over
// the same path have no ordering guarantee unless mediated by a FileLock.
//
// Close is idempotent and releases the underlying resource exactly once;
// every other operation on a closed File fails with ErrClosed.
type File interface {
	// Name returns the backend path the file was opened with.
	Name() string

	// Read reads up to len(p) bytes into p, returning the number read.
	// At end of stream it returns 0, io.EOF. Fails with ErrNotReadable on
	// write-only handles.
	Read(ctx context.Context, p []byte) (int, error)

	// ReadAll reads until end of stream, checking ctx between chunks.
	// A successful call returns err == nil, not io.EOF. Reading at end of
	// stream returns an empty slice and nil.
	ReadAll(ctx context.Context) ([]byte, error)

	// ReadLine reads up to and including the next '\n'. The final line of
	// a stream without a trailing newline is returned without one. At end
	// of stream it returns nil, io.EOF; that result is the sentinel ending
	// line iteration.
	ReadLine(ctx context.Context) ([]byte, error)

	// Write writes len(p) bytes from p, returning the number accepted.
	// It returns a non-nil error when fewer than len(p) bytes were
	// accepted, and fails with ErrNotWritable on read-only handles.
	Write(ctx context.Context, p []byte) (int, error)

	// Seek sets the cursor position per io.Seeker semantics and returns
	// the new offset. Fails with ErrNotSeekable when the resource does not
	// support random access.
	Seek(offset int64, whence int) (int64, error)

	// Tell returns the current cursor position.
	// Fails with ErrNotSeekable on non-random-access resources.
	Tell() (int64, error)

	// Truncate changes the size of the file without moving the cursor.
	// Fails with ErrNotSeekable on non-random-access resources and
	// ErrNotWritable on read-only handles.
	Truncate(ctx context.Context, size int64) error

	// Flush forces buffered writes to the backend. It does not guarantee
	// durability beyond the backend's own durability contract.
	Flush(ctx context.Context) error

	// Close releases the handle. Calling Close more than once is a no-op.
	Close() error

	// Readable reports whether the handle was opened for reading.
	Readable() bool

	// Writable reports whether the handle was opened for writing.
	Writable() bool

	// Seekable reports whether the resource supports random access.
	Seekable() bool

	// Closed reports whether Close has been called.
	Closed() bool
}

// FileLock is an advisory mutual-exclusion lock keyed by a path.
//
// A FileLock value has a single logical owner: the code holding the value.
// Acquire is reentrant for that owner; nested acquisitions increment a
// counter and only the matching outermost Release drops the underlying
// token. Sharing one FileLock value between independent goroutines that
// expect exclusion from each other is a misuse; give each its own value
// from Backend.Lock.
//
// State machine: Unlocked -> Acquiring -> Held -> Unlocked.
type FileLock interface {
	// Path returns the path the lock is keyed by.
	Path() string

	// Acquire obtains exclusive ownership of the lock token. If the owner
	// already holds the token, the reentrancy counter is incremented and
	// Acquire returns immediately without contending. If the token is held
	// elsewhere, Acquire polls at the configured interval until success,
	// the configured timeout (ErrLockTimeout), or ctx cancellation.
	// Without WithTimeout, Acquire waits until ctx is done.
	Acquire(ctx context.Context, opts ...AcquireOption) error

	// Release decrements the reentrancy counter, dropping the token when
	// it reaches zero. Release without a prior successful Acquire is a
	// no-op, never an error; lock bookkeeping must be safely unwindable
	// from cleanup paths. With force, the token is dropped and the counter
	// reset unconditionally, the recovery path for stale bookkeeping.
	Release(force bool) error

	// Held reports whether this owner currently holds the token.
	Held() bool
}

// Compile-time checks that the interface compositions stay coherent.
var (
	_ ReadBackend   = Backend(nil)
	_ WriteBackend  = Backend(nil)
	_ ManageBackend = Backend(nil)
	_ LockBackend   = Backend(nil)
)
