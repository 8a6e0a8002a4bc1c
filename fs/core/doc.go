// Package core provides the foundational interfaces and types for an
// asynchronous, multi-backend filesystem abstraction.
//
// This package defines contracts that storage backends must implement,
// enabling mirroring and sync logic to run unchanged against local disks,
// in-memory filesystems, and future networked or object-store backends.
// Every operation that touches storage takes a context.Context and is
// cancellable; pure path manipulation never performs I/O.
//
// # Design Philosophy
//
// The core package follows these principles:
//
//   - Capability composition: backends implement small focused interfaces
//     that compose into the Backend contract; optional capabilities are
//     discovered with type assertions and degrade to ErrUnsupported.
//   - No inheritance from a concrete filesystem type: Path is a value that
//     composes a Backend, nothing more.
//   - Stdlib compatibility: metadata is reported as fs.FileInfo and errors
//     satisfy errors.Is against the io/fs sentinels.
//   - Explicit suspension points: blocking work happens only inside
//     operations that take a context; cancellation is honored between
//     transfer chunks, not just at call entry.
//
// # Interface Hierarchy
//
// The Backend contract is composed of required sub-interfaces:
//
//   - ReadBackend: metadata and read access (Stat, Lstat, OpenFile, ReadDir)
//   - WriteBackend: creation and write access (Mkdir, MkdirAll, Chtimes)
//   - ManageBackend: structural mutation (Remove, Rename, Replace)
//   - LockBackend: advisory path-keyed locks (Lock)
//
// Optional capabilities for backend-specific features:
//
//   - MetadataBackend: Chmod, Lchmod
//   - OwnerBackend: Owner, Group
//   - SymlinkBackend: Symlink, Link, Readlink
//   - TempBackend: TempFile
//   - ResolveBackend: RealPath
//
// # Usage Example
//
//	func Mirror(ctx context.Context, b core.Backend) error {
//		status := core.NewPath(b, "web", "status")
//		return core.Rewrite(ctx, status, func(f core.File) error {
//			_, err := f.Write(ctx, []byte("ok\n"))
//			return err
//		})
//	}
//
// Concurrent writers to the same logical resource coordinate through the
// FileLock returned by Backend.Lock; durable updates to existing files go
// through Rewrite rather than a direct OpenFile.
package core
