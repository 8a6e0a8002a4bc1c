package fstest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lepaperwan/bandersnatch/fs/core"
)

// TestLock validates the advisory lock contract: mutual exclusion,
// reentrancy, timeouts, and force release.
func TestLock(t *testing.T, newBackend Factory, cfg Config) {
	ctx := context.Background()

	t.Run("AcquireRelease", func(t *testing.T) {
		b := newBackend(t)
		lock := b.Lock("guarded.txt")

		if lock.Held() {
			t.Fatal("Held() = true before Acquire")
		}
		if err := lock.Acquire(ctx); err != nil {
			t.Fatalf("Acquire() error = %v", err)
		}
		if !lock.Held() {
			t.Error("Held() = false after Acquire")
		}
		if err := lock.Release(false); err != nil {
			t.Fatalf("Release() error = %v", err)
		}
		if lock.Held() {
			t.Error("Held() = true after Release")
		}
	})

	t.Run("Reentrant", func(t *testing.T) {
		b := newBackend(t)
		lock := b.Lock("guarded.txt")

		if err := lock.Acquire(ctx); err != nil {
			t.Fatalf("Acquire() error = %v", err)
		}
		if err := lock.Acquire(ctx); err != nil {
			t.Fatalf("nested Acquire() error = %v", err)
		}

		// Still held after one release, free only after both.
		if err := lock.Release(false); err != nil {
			t.Fatalf("Release() error = %v", err)
		}
		if !lock.Held() {
			t.Fatal("Held() = false after releasing one of two acquisitions")
		}
		other := b.Lock("guarded.txt")
		if err := other.Acquire(ctx, core.WithTimeout(100*time.Millisecond)); !errors.Is(err, core.ErrLockTimeout) {
			t.Fatalf("contended Acquire() error = %v, want ErrLockTimeout", err)
		}

		if err := lock.Release(false); err != nil {
			t.Fatalf("final Release() error = %v", err)
		}
		if err := other.Acquire(ctx, core.WithTimeout(time.Second)); err != nil {
			t.Fatalf("Acquire() after full release error = %v", err)
		}
		if err := other.Release(false); err != nil {
			t.Fatalf("Release() error = %v", err)
		}
	})

	t.Run("TimeoutBound", func(t *testing.T) {
		b := newBackend(t)
		holder := b.Lock("guarded.txt")
		if err := holder.Acquire(ctx); err != nil {
			t.Fatalf("Acquire() error = %v", err)
		}
		defer func() { _ = holder.Release(true) }()

		const (
			timeout = 150 * time.Millisecond
			poll    = 10 * time.Millisecond
		)
		waiter := b.Lock("guarded.txt")
		start := time.Now()
		err := waiter.Acquire(ctx, core.WithTimeout(timeout), core.WithPollInterval(poll))
		elapsed := time.Since(start)
		if !errors.Is(err, core.ErrLockTimeout) {
			t.Fatalf("Acquire() error = %v, want ErrLockTimeout", err)
		}
		if elapsed < timeout {
			t.Errorf("Acquire() returned after %v, before the %v timeout", elapsed, timeout)
		}
		// Slack covers scheduler jitter; the point is it gave up near the
		// deadline rather than polling on.
		if limit := timeout + 20*poll; elapsed > limit {
			t.Errorf("Acquire() returned after %v, past the %v bound", elapsed, limit)
		}
		if waiter.Held() {
			t.Error("Held() = true after a timed-out Acquire")
		}
	})

	t.Run("ReleaseWithoutAcquire", func(t *testing.T) {
		b := newBackend(t)
		lock := b.Lock("guarded.txt")

		if err := lock.Release(false); err != nil {
			t.Errorf("Release() without Acquire error = %v, want nil", err)
		}
	})

	t.Run("ForceRelease", func(t *testing.T) {
		b := newBackend(t)
		lock := b.Lock("guarded.txt")

		for range 3 {
			if err := lock.Acquire(ctx); err != nil {
				t.Fatalf("Acquire() error = %v", err)
			}
		}
		if err := lock.Release(true); err != nil {
			t.Fatalf("Release(force) error = %v", err)
		}
		if lock.Held() {
			t.Error("Held() = true after force release")
		}

		other := b.Lock("guarded.txt")
		if err := other.Acquire(ctx, core.WithTimeout(time.Second)); err != nil {
			t.Fatalf("Acquire() after force release error = %v", err)
		}
		if err := other.Release(false); err != nil {
			t.Fatalf("Release() error = %v", err)
		}
	})

	t.Run("CancelUntimedAcquire", func(t *testing.T) {
		b := newBackend(t)
		holder := b.Lock("guarded.txt")
		if err := holder.Acquire(ctx); err != nil {
			t.Fatalf("Acquire() error = %v", err)
		}
		defer func() { _ = holder.Release(true) }()

		waitCtx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func() {
			waiter := b.Lock("guarded.txt")
			done <- waiter.Acquire(waitCtx, core.WithPollInterval(10*time.Millisecond))
		}()
		time.Sleep(50 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Acquire() error = %v, want context.Canceled", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Acquire() did not return after cancellation")
		}
	})

	t.Run("WithLock", func(t *testing.T) {
		b := newBackend(t)
		lock := b.Lock("guarded.txt")

		var ran bool
		err := core.WithLock(ctx, lock, func(context.Context) error {
			ran = true
			if !lock.Held() {
				t.Error("Held() = false inside WithLock")
			}
			return nil
		})
		if err != nil {
			t.Fatalf("WithLock() error = %v", err)
		}
		if !ran {
			t.Fatal("WithLock() did not invoke the function")
		}
		if lock.Held() {
			t.Error("Held() = true after WithLock returned")
		}

		sentinel := errors.New("boom")
		if err := core.WithLock(ctx, lock, func(context.Context) error { return sentinel }); !errors.Is(err, sentinel) {
			t.Errorf("WithLock() error = %v, want sentinel", err)
		}
		if lock.Held() {
			t.Error("Held() = true after WithLock failed")
		}
	})

	t.Run("DistinctNamesIndependent", func(t *testing.T) {
		b := newBackend(t)
		a := b.Lock("a.txt")
		c := b.Lock("c.txt")

		if err := a.Acquire(ctx); err != nil {
			t.Fatalf("Acquire(a) error = %v", err)
		}
		defer func() { _ = a.Release(true) }()
		if err := c.Acquire(ctx, core.WithTimeout(time.Second)); err != nil {
			t.Fatalf("Acquire(c) error = %v, want no contention", err)
		}
		if err := c.Release(false); err != nil {
			t.Fatalf("Release(c) error = %v", err)
		}
	})
}
