package fsutil_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepaperwan/bandersnatch/fs/billy"
	"github.com/lepaperwan/bandersnatch/fs/core"
	"github.com/lepaperwan/bandersnatch/fs/fsutil"
)

const (
	emptySHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	helloSHA256 = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
)

func seedFile(t *testing.T, b core.Backend, name, content string) core.Path {
	t.Helper()
	ctx := context.Background()
	p := core.NewPath(b, name)
	require.NoError(t, p.Parent().Mkdir(ctx, core.WithParents(), core.WithExistOK()))
	_, err := p.WriteBytes(ctx, []byte(content))
	require.NoError(t, err)
	return p
}

func TestChecksum(t *testing.T) {
	ctx := context.Background()
	b := billy.NewMemory()

	t.Run("known digest", func(t *testing.T) {
		p := seedFile(t, b, "hello.txt", "hello world")
		sum, err := fsutil.Checksum(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, helloSHA256, sum)
	})

	t.Run("empty file", func(t *testing.T) {
		p := seedFile(t, b, "empty.txt", "")
		sum, err := fsutil.Checksum(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, emptySHA256, sum)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := fsutil.Checksum(ctx, core.NewPath(b, "absent.txt"))
		assert.ErrorIs(t, err, core.ErrNotExist)
	})
}

func TestChecksumTree(t *testing.T) {
	ctx := context.Background()
	b := billy.NewMemory()
	root := core.NewPath(b, "tree")

	seedFile(t, b, "tree/hello.txt", "hello world")
	seedFile(t, b, "tree/sub/empty.txt", "")

	sums, err := fsutil.ChecksumTree(ctx, root, 4)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"tree/hello.txt":     helloSHA256,
		"tree/sub/empty.txt": emptySHA256,
	}, sums)
}

func TestChecksumTreeCancelled(t *testing.T) {
	b := billy.NewMemory()
	root := core.NewPath(b, "tree")
	seedFile(t, b, "tree/hello.txt", "hello world")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fsutil.ChecksumTree(ctx, root, 2)
	assert.ErrorIs(t, err, context.Canceled)
}
