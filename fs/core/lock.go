package core

import (
	"context"
	"time"
)

// DefaultPollInterval is the interval at which Acquire re-checks a lock
// token held elsewhere when no WithPollInterval option is given.
const DefaultPollInterval = 50 * time.Millisecond

// AcquireConfig is the resolved configuration for one Acquire call.
type AcquireConfig struct {
	// Timeout bounds the whole acquisition. Zero means no bound: Acquire
	// waits until the context is done.
	Timeout time.Duration

	// PollInterval is the delay between contention retries.
	PollInterval time.Duration
}

// AcquireOption configures a single Acquire call.
type AcquireOption func(*AcquireConfig)

// WithTimeout bounds the acquisition; Acquire fails with ErrLockTimeout
// once d elapses without obtaining the token.
func WithTimeout(d time.Duration) AcquireOption {
	return func(c *AcquireConfig) {
		c.Timeout = d
	}
}

// WithPollInterval sets the contention retry interval.
func WithPollInterval(d time.Duration) AcquireOption {
	return func(c *AcquireConfig) {
		if d > 0 {
			c.PollInterval = d
		}
	}
}

// ApplyAcquireOptions resolves opts onto the default configuration.
// Backends call this at the top of their Acquire implementations so that
// defaults stay uniform across backends.
func ApplyAcquireOptions(opts ...AcquireOption) AcquireConfig {
	cfg := AcquireConfig{PollInterval: DefaultPollInterval}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithLock runs fn while holding the lock, releasing it on every exit path.
// The release uses force=false so nested holds by the same owner survive.
func WithLock(ctx context.Context, lock FileLock, fn func(ctx context.Context) error, opts ...AcquireOption) error {
	if err := lock.Acquire(ctx, opts...); err != nil {
		return err
	}
	defer func() { _ = lock.Release(false) }()
	return fn(ctx)
}
