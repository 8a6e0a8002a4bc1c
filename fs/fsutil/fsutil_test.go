package fsutil_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepaperwan/bandersnatch/fs/billy"
	"github.com/lepaperwan/bandersnatch/fs/core"
	"github.com/lepaperwan/bandersnatch/fs/fsutil"
)

func TestSafeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already safe", "requests", "requests"},
		{"underscore", "some_name", "some-name"},
		{"mixed case", "Django", "django"},
		{"spaces", "my project", "my-project"},
		{"run of separators", "a__ b", "a-b"},
		{"dots kept", "zope.interface", "zope.interface"},
		{"unicode", "naïve", "na-ve"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fsutil.SafeName(tt.in))
		})
	}
}

func TestMakeTimestamp(t *testing.T) {
	ts := fsutil.MakeTimestamp()

	assert.NotContains(t, ts, ":")
	assert.True(t, strings.HasSuffix(ts, "Z"), "timestamp %q should end in Z", ts)
	assert.Len(t, ts, len("2006-01-02T150405.000000Z"))
}

func TestConvertURLToPath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"package url", "https://files.example.org/packages/ab/cd/pkg.tar.gz", "packages/ab/cd/pkg.tar.gz"},
		{"no path", "https://files.example.org", ""},
		{"root path", "https://files.example.org/", ""},
		{"relative", "packages/pkg.tar.gz", "packages/pkg.tar.gz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fsutil.ConvertURLToPath(tt.in))
		})
	}
}

func TestUnlinkParentDir(t *testing.T) {
	ctx := context.Background()

	t.Run("removes empty parent", func(t *testing.T) {
		b := billy.NewMemory()
		p := core.NewPath(b, "pkg/only.txt")
		require.NoError(t, p.Parent().Mkdir(ctx, core.WithParents()))
		_, err := p.WriteBytes(ctx, []byte("x"))
		require.NoError(t, err)

		require.NoError(t, fsutil.UnlinkParentDir(ctx, p))

		exists, err := p.Parent().Exists(ctx)
		require.NoError(t, err)
		assert.False(t, exists, "empty parent should be removed")
	})

	t.Run("keeps occupied parent", func(t *testing.T) {
		b := billy.NewMemory()
		p := core.NewPath(b, "pkg/a.txt")
		sibling := core.NewPath(b, "pkg/b.txt")
		require.NoError(t, p.Parent().Mkdir(ctx, core.WithParents()))
		_, err := p.WriteBytes(ctx, []byte("x"))
		require.NoError(t, err)
		_, err = sibling.WriteBytes(ctx, []byte("y"))
		require.NoError(t, err)

		require.NoError(t, fsutil.UnlinkParentDir(ctx, p))

		exists, err := sibling.Exists(ctx)
		require.NoError(t, err)
		assert.True(t, exists, "occupied parent must survive")
	})

	t.Run("missing file fails", func(t *testing.T) {
		b := billy.NewMemory()
		err := fsutil.UnlinkParentDir(ctx, core.NewPath(b, "absent.txt"))
		assert.ErrorIs(t, err, core.ErrNotExist)
	})
}

func TestFind(t *testing.T) {
	ctx := context.Background()
	b := billy.NewMemory()
	root := core.NewPath(b, "mirror")

	for _, name := range []string{"mirror/web/a.txt", "mirror/web/sub/b.txt"} {
		p := core.NewPath(b, name)
		require.NoError(t, p.Parent().Mkdir(ctx, core.WithParents()))
		_, err := p.WriteBytes(ctx, []byte("x"))
		require.NoError(t, err)
	}

	t.Run("files only", func(t *testing.T) {
		got, err := fsutil.Find(ctx, root, false)
		require.NoError(t, err)
		assert.Equal(t, "web/a.txt\nweb/sub/b.txt", got)
	})

	t.Run("with directories", func(t *testing.T) {
		got, err := fsutil.Find(ctx, root, true)
		require.NoError(t, err)
		assert.Equal(t, "web\nweb/a.txt\nweb/sub\nweb/sub/b.txt", got)
	})
}
