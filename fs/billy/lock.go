package billy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/gofrs/flock"

	"github.com/lepaperwan/bandersnatch/fs/core"
	"github.com/lepaperwan/bandersnatch/internal/ident"
)

// localLock is the disk-backed advisory lock: a flock(2)-style token on a
// sibling lock file, with a reentrancy counter for nested acquisition by
// the same logical owner. The mutex only guards the counter; contention
// between owners is carried by the OS token.
type localLock struct {
	name  string
	token *flock.Flock

	mu    sync.Mutex
	count int
}

func newLocalLock(name, tokenPath string) *localLock {
	return &localLock{name: name, token: flock.New(tokenPath)}
}

// Path returns the path the lock is keyed by.
func (l *localLock) Path() string { return l.name }

// Held reports whether this owner currently holds the token.
func (l *localLock) Held() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count > 0
}

// Acquire obtains the OS token, polling while it is held elsewhere.
// Reentrant acquisition by the same owner returns immediately.
func (l *localLock) Acquire(ctx context.Context, opts ...core.AcquireOption) error {
	cfg := core.ApplyAcquireOptions(opts...)

	l.mu.Lock()
	if l.count > 0 {
		l.count++
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()

	waitCtx := ctx
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	locked, err := l.token.TryLockContext(waitCtx, cfg.PollInterval)
	if err != nil {
		// Distinguish our timeout from the caller's own cancellation.
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return core.PathError("lock", l.name, core.ErrLockTimeout)
		}
		return core.PathError("lock", l.name, err)
	}
	if !locked {
		return core.PathError("lock", l.name, core.ErrLockTimeout)
	}

	l.stamp()

	l.mu.Lock()
	l.count = 1
	l.mu.Unlock()
	return nil
}

// stamp records the holder in the token file so a stale lock can be
// traced to its process. Best effort; the flock itself carries the
// exclusion.
func (l *localLock) stamp() {
	holder := fmt.Sprintf("%s pid %d\n", ident.UserAgent(), os.Getpid())
	_ = os.WriteFile(l.token.Path(), []byte(holder), 0o644)
}

// Release decrements the reentrancy counter, dropping the token at zero.
// With force, the token is dropped and the counter reset regardless of
// bookkeeping state. Release without a matching Acquire is a no-op.
func (l *localLock) Release(force bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if force {
		l.count = 0
		return l.token.Unlock()
	}
	switch l.count {
	case 0:
		return nil
	case 1:
		l.count = 0
		return l.token.Unlock()
	default:
		l.count--
		return nil
	}
}

// lockTable emulates advisory locks for in-memory backends: one token
// channel per path, shared by every FileLock the backend hands out for
// that path.
type lockTable struct {
	mu     sync.Mutex
	tokens map[string]chan struct{}
}

func newLockTable() *lockTable {
	return &lockTable{tokens: make(map[string]chan struct{})}
}

func (t *lockTable) lock(name string) *memLock {
	t.mu.Lock()
	defer t.mu.Unlock()
	token, ok := t.tokens[name]
	if !ok {
		token = make(chan struct{}, 1)
		t.tokens[name] = token
	}
	return &memLock{name: name, token: token}
}

// memLock mirrors localLock's semantics over a buffered channel token.
type memLock struct {
	name  string
	token chan struct{}

	mu    sync.Mutex
	count int
}

// Path returns the path the lock is keyed by.
func (l *memLock) Path() string { return l.name }

// Held reports whether this owner currently holds the token.
func (l *memLock) Held() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count > 0
}

// Acquire obtains the token, waiting for it to free up while it is held
// by another owner.
func (l *memLock) Acquire(ctx context.Context, opts ...core.AcquireOption) error {
	cfg := core.ApplyAcquireOptions(opts...)

	l.mu.Lock()
	if l.count > 0 {
		l.count++
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()

	waitCtx := ctx
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	select {
	case l.token <- struct{}{}:
	case <-waitCtx.Done():
		if errors.Is(waitCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return core.PathError("lock", l.name, core.ErrLockTimeout)
		}
		return core.PathError("lock", l.name, waitCtx.Err())
	}

	l.mu.Lock()
	l.count = 1
	l.mu.Unlock()
	return nil
}

// Release decrements the reentrancy counter, freeing the token at zero.
func (l *memLock) Release(force bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if force {
		l.count = 0
		l.drain()
		return nil
	}
	switch l.count {
	case 0:
		return nil
	case 1:
		l.count = 0
		l.drain()
		return nil
	default:
		l.count--
		return nil
	}
}

// drain frees the token if it is taken.
func (l *memLock) drain() {
	select {
	case <-l.token:
	default:
	}
}

// interface checks
var (
	_ core.FileLock = (*localLock)(nil)
	_ core.FileLock = (*memLock)(nil)
)
