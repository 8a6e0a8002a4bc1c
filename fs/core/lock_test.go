package core_test

import (
	"testing"
	"time"

	"github.com/lepaperwan/bandersnatch/fs/core"
)

// TestApplyAcquireOptions verifies option resolution and its defaults.
func TestApplyAcquireOptions(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg := core.ApplyAcquireOptions()
		if cfg.Timeout != 0 {
			t.Errorf("Timeout = %v, want 0 (unbounded)", cfg.Timeout)
		}
		if cfg.PollInterval != core.DefaultPollInterval {
			t.Errorf("PollInterval = %v, want %v", cfg.PollInterval, core.DefaultPollInterval)
		}
	})

	t.Run("WithTimeout", func(t *testing.T) {
		cfg := core.ApplyAcquireOptions(core.WithTimeout(3 * time.Second))
		if cfg.Timeout != 3*time.Second {
			t.Errorf("Timeout = %v, want 3s", cfg.Timeout)
		}
	})

	t.Run("WithPollInterval", func(t *testing.T) {
		cfg := core.ApplyAcquireOptions(core.WithPollInterval(5 * time.Millisecond))
		if cfg.PollInterval != 5*time.Millisecond {
			t.Errorf("PollInterval = %v, want 5ms", cfg.PollInterval)
		}
	})

	t.Run("NonPositivePollIntervalIgnored", func(t *testing.T) {
		cfg := core.ApplyAcquireOptions(core.WithPollInterval(0))
		if cfg.PollInterval != core.DefaultPollInterval {
			t.Errorf("PollInterval = %v, want default %v", cfg.PollInterval, core.DefaultPollInterval)
		}
	})
}
