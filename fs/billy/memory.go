package billy

import (
	"context"
	"errors"

	"github.com/lepaperwan/bandersnatch/fs/core"
)

// MemoryFS is the in-memory backend, intended for tests and ephemeral
// staging. Locks are emulated with an in-process table; permission bits
// and ownership are not tracked and the corresponding capabilities are
// absent, so Path operations on them fail with ErrUnsupported.
type MemoryFS struct {
	backendFS
	locks *lockTable
}

// Type returns BackendMemory.
func (m *MemoryFS) Type() core.BackendType {
	return core.BackendMemory
}

// Replace moves oldname onto newname, replacing any existing file.
// Memfs rejects renames onto an existing target, so the target is removed
// first; the two steps are not observable separately because memfs is a
// single in-process structure and callers coordinating through a FileLock
// serialize around both.
func (m *MemoryFS) Replace(ctx context.Context, oldname, newname string) error {
	if err := ctx.Err(); err != nil {
		return core.PathError("replace", oldname, err)
	}
	if err := m.bfs.Remove(normalize(newname)); err != nil && !errors.Is(err, core.ErrNotExist) {
		return err
	}
	return m.Rename(ctx, oldname, newname)
}

// Link is unsupported: memfs has no hard link identity.
func (m *MemoryFS) Link(ctx context.Context, _, newname string) error {
	if err := ctx.Err(); err != nil {
		return core.PathError("link", newname, err)
	}
	return core.PathError("link", newname, core.ErrUnsupported)
}

// Lock returns the in-process advisory lock for the named path.
func (m *MemoryFS) Lock(name string) core.FileLock {
	return m.locks.lock(normalize(name))
}

// interface checks
var (
	_ core.Backend        = (*MemoryFS)(nil)
	_ core.SymlinkBackend = (*MemoryFS)(nil)
	_ core.TempBackend    = (*MemoryFS)(nil)
)
