package billy

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestLocalLock_TokenFile verifies the on-disk token is a dot-prefixed
// sibling of the guarded path, so locking never touches the path itself.
func TestLocalLock_TokenFile(t *testing.T) {
	dir := t.TempDir()
	fs := NewLocal(dir)
	ctx := context.Background()

	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	lock := fs.Lock("sub/status.json")
	if err := lock.Acquire(ctx); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer func() { _ = lock.Release(true) }()

	token := filepath.Join(dir, "sub", ".status.json.lock")
	if _, err := os.Stat(token); err != nil {
		t.Errorf("token file %q not present while held: %v", token, err)
	}
	holder, err := os.ReadFile(token)
	if err != nil {
		t.Fatalf("reading token file: %v", err)
	}
	if !strings.Contains(string(holder), "bandersnatch/") {
		t.Errorf("token file holder stamp = %q, want the user agent", holder)
	}
	if _, err := os.Stat(filepath.Join(dir, "sub", "status.json")); !os.IsNotExist(err) {
		t.Errorf("guarded path was created by locking: %v", err)
	}
}

// TestMemoryLockTable_SharedToken verifies locks handed out for the same
// path contend, while distinct paths do not.
func TestMemoryLockTable_SharedToken(t *testing.T) {
	table := newLockTable()

	a := table.lock("status.json")
	b := table.lock("status.json")
	if a.token != b.token {
		t.Error("locks for the same path do not share a token")
	}

	c := table.lock("other.json")
	if a.token == c.token {
		t.Error("locks for distinct paths share a token")
	}
}
