package core

import (
	"context"
	"errors"
)

// CommitMode is the permission bits applied to a rewritten file before the
// staged copy becomes visible at the target, regardless of the temporary
// file's creation mode.
const CommitMode = 0o644

// Rewrite rewrites the file at target atomically, so that readers running
// in parallel never observe a partial write.
//
// The new content is staged to a uniquely named temporary sibling of the
// target, named ".<name>.<random>". Dot-prefixed siblings keep the staging
// file in the same placement group as the target on distributed filesystems
// that shard by content hash of the name. fn receives the staged file as a
// writable handle; when fn returns nil, the staged file's mode is set to
// CommitMode and it is moved onto the target in one atomic replace.
//
// When fn returns an error or ctx is cancelled, the staged file is removed
// and the target is left untouched. fn may also remove the staged file
// itself to abandon the rewrite without reporting an error; the commit is
// then skipped silently. If the final chmod or replace fails, the staged
// file is left in place for inspection and the target is still untouched.
func Rewrite(ctx context.Context, target Path, fn func(f File) error) error {
	tb, ok := target.backend.(TempBackend)
	if !ok {
		return PathError("rewrite", target.name, ErrUnsupported)
	}

	tmp, err := tb.TempFile(ctx, target.Parent().String(), "."+target.Base()+".")
	if err != nil {
		return err
	}
	staged := NewPath(target.backend, tmp.Name())

	err = fn(tmp)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		// The failure may be the ctx itself; cleanup must still run.
		_ = staged.Unlink(context.WithoutCancel(ctx), true)
		return err
	}

	// The caller may have removed the staged file to abandon the rewrite.
	exists, err := staged.Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	if err := staged.Chmod(ctx, CommitMode); err != nil && !errors.Is(err, ErrUnsupported) {
		return err
	}
	_, err = staged.Replace(ctx, target)
	return err
}
