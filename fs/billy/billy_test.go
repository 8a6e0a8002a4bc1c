package billy

import (
	"context"
	"errors"
	"testing"

	"github.com/lepaperwan/bandersnatch/fs/core"
	"github.com/lepaperwan/bandersnatch/fs/fstest"
)

// TestLocalFS_Constructor verifies NewLocal creates a valid backend.
func TestLocalFS_Constructor(t *testing.T) {
	fs := NewLocal(t.TempDir())
	if fs == nil {
		t.Fatal("NewLocal() returned nil")
	}
	if fs.bfs == nil {
		t.Error("NewLocal() bfs field is nil")
	}
}

// TestMemoryFS_Constructor verifies NewMemory creates a valid backend.
func TestMemoryFS_Constructor(t *testing.T) {
	fs := NewMemory()
	if fs == nil {
		t.Fatal("NewMemory() returned nil")
	}
	if fs.bfs == nil {
		t.Error("NewMemory() bfs field is nil")
	}
	if fs.locks == nil {
		t.Error("NewMemory() lock table is nil")
	}
}

// TestLocalFS_Unwrap verifies Unwrap returns the underlying billy.Filesystem.
func TestLocalFS_Unwrap(t *testing.T) {
	fs := NewLocal(t.TempDir())
	if fs.Unwrap() == nil {
		t.Fatal("Unwrap() returned nil")
	}
}

// TestMemoryFS_Unwrap verifies the unwrapped filesystem is usable directly.
func TestMemoryFS_Unwrap(t *testing.T) {
	fs := NewMemory()
	billyFS := fs.Unwrap()
	if billyFS == nil {
		t.Fatal("Unwrap() returned nil")
	}

	if _, err := billyFS.Create("test.txt"); err != nil {
		t.Errorf("Failed to use unwrapped filesystem: %v", err)
	}
}

// TestLocalFS_Type verifies LocalFS reports BackendLocal.
func TestLocalFS_Type(t *testing.T) {
	fs := NewLocal(t.TempDir())
	if got := fs.Type(); got != core.BackendLocal {
		t.Errorf("LocalFS.Type() = %v (%s), want %v (%s)",
			got, got.String(), core.BackendLocal, core.BackendLocal.String())
	}
}

// TestMemoryFS_Type verifies MemoryFS reports BackendMemory.
func TestMemoryFS_Type(t *testing.T) {
	fs := NewMemory()
	if got := fs.Type(); got != core.BackendMemory {
		t.Errorf("MemoryFS.Type() = %v (%s), want %v (%s)",
			got, got.String(), core.BackendMemory, core.BackendMemory.String())
	}
}

// TestLocalFS_Capabilities verifies the optional capability assertions a
// caller would make against the local backend.
func TestLocalFS_Capabilities(t *testing.T) {
	var b core.Backend = NewLocal(t.TempDir())

	if _, ok := b.(core.MetadataBackend); !ok {
		t.Error("LocalFS does not implement MetadataBackend")
	}
	if _, ok := b.(core.OwnerBackend); !ok {
		t.Error("LocalFS does not implement OwnerBackend")
	}
	if _, ok := b.(core.SymlinkBackend); !ok {
		t.Error("LocalFS does not implement SymlinkBackend")
	}
	if _, ok := b.(core.TempBackend); !ok {
		t.Error("LocalFS does not implement TempBackend")
	}
	if _, ok := b.(core.ResolveBackend); !ok {
		t.Error("LocalFS does not implement ResolveBackend")
	}
}

// TestMemoryFS_Capabilities verifies the memory backend degrades the
// capabilities it cannot honor.
func TestMemoryFS_Capabilities(t *testing.T) {
	var b core.Backend = NewMemory()

	if _, ok := b.(core.MetadataBackend); ok {
		t.Error("MemoryFS should not implement MetadataBackend")
	}
	if _, ok := b.(core.OwnerBackend); ok {
		t.Error("MemoryFS should not implement OwnerBackend")
	}
	if _, ok := b.(core.TempBackend); !ok {
		t.Error("MemoryFS does not implement TempBackend")
	}

	ctx := context.Background()
	p := core.NewPath(b, "file.txt")
	if err := p.Chmod(ctx, 0o644); !errors.Is(err, core.ErrUnsupported) {
		t.Errorf("Chmod() on memory backend error = %v, want ErrUnsupported", err)
	}
	if _, err := p.Owner(ctx); !errors.Is(err, core.ErrUnsupported) {
		t.Errorf("Owner() on memory backend error = %v, want ErrUnsupported", err)
	}
}

// TestLocalFS_Conformance runs the full conformance suite against a
// throwaway directory per test.
func TestLocalFS_Conformance(t *testing.T) {
	fstest.TestSuite(t, func(t *testing.T) core.Backend {
		return NewLocal(t.TempDir())
	})
}

// TestMemoryFS_Conformance runs the conformance suite with the reduced
// memory capability set.
func TestMemoryFS_Conformance(t *testing.T) {
	fstest.TestSuiteWithConfig(t, func(t *testing.T) core.Backend {
		return NewMemory()
	}, fstest.MemoryConfig())
}
