package core_test

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/lepaperwan/bandersnatch/fs/core"
)

// TestReexportedErrorsMatchStdlib verifies re-exported errors match stdlib.
func TestReexportedErrorsMatchStdlib(t *testing.T) {
	tests := []struct {
		name      string
		coreErr   error
		stdlibErr error
	}{
		{"ErrNotExist", core.ErrNotExist, fs.ErrNotExist},
		{"ErrExist", core.ErrExist, fs.ErrExist},
		{"ErrPermission", core.ErrPermission, fs.ErrPermission},
		{"ErrClosed", core.ErrClosed, fs.ErrClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.coreErr, tt.stdlibErr) || !errors.Is(tt.stdlibErr, tt.coreErr) {
				t.Errorf("%s does not match stdlib: core=%v, stdlib=%v",
					tt.name, tt.coreErr, tt.stdlibErr)
			}
		})
	}
}

// TestErrorsWorkWithIs verifies errors can be used with errors.Is() through
// wrapping.
func TestErrorsWorkWithIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotExist", core.ErrNotExist},
		{"ErrNotEmpty", core.ErrNotEmpty},
		{"ErrCrossDevice", core.ErrCrossDevice},
		{"ErrNotWritable", core.ErrNotWritable},
		{"ErrNotReadable", core.ErrNotReadable},
		{"ErrNotSeekable", core.ErrNotSeekable},
		{"ErrLockTimeout", core.ErrLockTimeout},
		{"ErrUnsupported", core.ErrUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.err) {
				t.Errorf("errors.Is(%s, %s) returned false, expected true",
					tt.name, tt.name)
			}

			wrapped := fmt.Errorf("wrapped: %w", tt.err)
			if !errors.Is(wrapped, tt.err) {
				t.Errorf("errors.Is(wrapped, %s) returned false, expected true",
					tt.name)
			}
		})
	}
}

// TestErrorIdentity verifies distinct errors stay distinct.
func TestErrorIdentity(t *testing.T) {
	if errors.Is(core.ErrNotExist, core.ErrExist) {
		t.Error("ErrNotExist should not equal ErrExist")
	}
	if errors.Is(core.ErrNotWritable, core.ErrNotReadable) {
		t.Error("ErrNotWritable should not equal ErrNotReadable")
	}
	if errors.Is(core.ErrUnsupported, core.ErrNotExist) {
		t.Error("ErrUnsupported should not equal ErrNotExist")
	}
}

// TestPathError verifies PathError wrapping and its nil passthrough.
func TestPathError(t *testing.T) {
	err := core.PathError("open", "some/file.txt", core.ErrNotExist)

	var perr *fs.PathError
	if !errors.As(err, &perr) {
		t.Fatalf("PathError() = %T, want *fs.PathError", err)
	}
	if perr.Op != "open" || perr.Path != "some/file.txt" {
		t.Errorf("PathError() = op %q path %q, want open some/file.txt", perr.Op, perr.Path)
	}
	if !errors.Is(err, core.ErrNotExist) {
		t.Error("PathError() does not unwrap to the cause")
	}

	if core.PathError("open", "some/file.txt", nil) != nil {
		t.Error("PathError(nil) should be nil")
	}
}
