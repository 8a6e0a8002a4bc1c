package core

import (
	"errors"
	"io/fs"
)

var (
	// ErrNotExist is returned when a file or directory does not exist.
	// Re-exported from io/fs for convenience.
	ErrNotExist = fs.ErrNotExist

	// ErrExist is returned when a file or directory already exists.
	// Re-exported from io/fs for convenience.
	ErrExist = fs.ErrExist

	// ErrPermission is returned when permission is denied.
	// Re-exported from io/fs for convenience.
	ErrPermission = fs.ErrPermission

	// ErrClosed is returned when an operation is performed on a closed file.
	// Re-exported from io/fs for convenience.
	ErrClosed = fs.ErrClosed

	// ErrNotEmpty is returned when removing a directory that still has entries.
	ErrNotEmpty = errors.New("directory not empty")

	// ErrCrossDevice is returned when a rename or replace cannot be performed
	// atomically across the given locations (distinct filesystems or mounts).
	ErrCrossDevice = errors.New("cross-device link")

	// ErrNotWritable is returned when writing to a handle opened read-only.
	ErrNotWritable = errors.New("file not opened for writing")

	// ErrNotReadable is returned when reading from a handle opened write-only.
	ErrNotReadable = errors.New("file not opened for reading")

	// ErrNotSeekable is returned when the underlying resource does not
	// support random access (for example a pipe).
	ErrNotSeekable = errors.New("file does not support seeking")

	// ErrLockTimeout is returned when a lock acquisition does not succeed
	// within the caller's deadline.
	ErrLockTimeout = errors.New("lock acquisition timed out")

	// ErrUnsupported is returned when an operation is not implementable by
	// the backend. For example, symlink operations on object storage or
	// ownership queries on an in-memory filesystem.
	ErrUnsupported = errors.New("operation not supported")
)

// PathError wraps err in a *fs.PathError for the given operation and path.
// Returns nil if err is nil.
func PathError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &fs.PathError{Op: op, Path: path, Err: err}
}
