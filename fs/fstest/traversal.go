package fstest

import (
	"context"
	"slices"
	"testing"

	"github.com/lepaperwan/bandersnatch/fs/core"
)

// collect drains a path sequence into relative name strings, failing the
// test on a yielded error.
func collect(t *testing.T, seq func(yield func(core.Path, error) bool)) []string {
	t.Helper()
	var names []string
	seq(func(p core.Path, err error) bool {
		if err != nil {
			t.Fatalf("traversal error = %v", err)
		}
		names = append(names, p.String())
		return true
	})
	return names
}

// TestTraversal validates iterdir, glob, and rglob.
func TestTraversal(t *testing.T, newBackend Factory, cfg Config) {
	ctx := context.Background()

	// populate builds the tree used by all subtests:
	//
	//	a.txt  b.txt  c.log
	//	sub/d.txt
	//	sub/nested/e.txt
	populate := func(t *testing.T) core.Backend {
		b := newBackend(t)
		seed(t, b, "a.txt", "a")
		seed(t, b, "b.txt", "b")
		seed(t, b, "c.log", "c")
		seed(t, b, "sub/d.txt", "d")
		seed(t, b, "sub/nested/e.txt", "e")
		return b
	}

	t.Run("Iterdir", func(t *testing.T) {
		b := populate(t)
		root := core.NewPath(b)

		got := collect(t, root.Iterdir(ctx))
		want := []string{"a.txt", "b.txt", "c.log", "sub"}
		if !slices.Equal(got, want) {
			t.Errorf("Iterdir() = %v, want %v", got, want)
		}

		// Listing an unmodified directory again yields the same order.
		again := collect(t, root.Iterdir(ctx))
		if !slices.Equal(got, again) {
			t.Errorf("Iterdir() unstable: %v then %v", got, again)
		}
	})

	t.Run("IterdirEarlyStop", func(t *testing.T) {
		b := populate(t)
		var seen int
		for _, err := range core.NewPath(b).Iterdir(ctx) {
			if err != nil {
				t.Fatalf("Iterdir() error = %v", err)
			}
			seen++
			break
		}
		if seen != 1 {
			t.Errorf("consumed %d entries after break, want 1", seen)
		}
	})

	t.Run("IterdirNotExist", func(t *testing.T) {
		b := newBackend(t)
		var gotErr error
		for _, err := range core.NewPath(b, "missing").Iterdir(ctx) {
			gotErr = err
		}
		if gotErr == nil {
			t.Error("Iterdir(missing) yielded no error, want one")
		}
	})

	t.Run("Glob", func(t *testing.T) {
		b := populate(t)
		root := core.NewPath(b)

		cases := []struct {
			pattern string
			want    []string
		}{
			{"*.txt", []string{"a.txt", "b.txt"}},
			{"?.log", []string{"c.log"}},
			{"sub/*.txt", []string{"sub/d.txt"}},
			{"*/nested/*", []string{"sub/nested/e.txt"}},
			{"**/*.txt", []string{"a.txt", "b.txt", "sub/d.txt", "sub/nested/e.txt"}},
			{"*.missing", nil},
		}
		for _, tc := range cases {
			got := collect(t, root.Glob(ctx, tc.pattern))
			slices.Sort(got)
			if !slices.Equal(got, tc.want) {
				t.Errorf("Glob(%q) = %v, want %v", tc.pattern, got, tc.want)
			}
		}
	})

	t.Run("GlobInvalidPattern", func(t *testing.T) {
		b := populate(t)
		var gotErr error
		for _, err := range core.NewPath(b).Glob(ctx, "/absolute") {
			gotErr = err
		}
		if gotErr == nil {
			t.Error("Glob(/absolute) yielded no error, want one")
		}
	})

	t.Run("Rglob", func(t *testing.T) {
		b := populate(t)
		root := core.NewPath(b)

		got := collect(t, root.Rglob(ctx, "*.txt"))
		slices.Sort(got)
		want := []string{"a.txt", "b.txt", "sub/d.txt", "sub/nested/e.txt"}
		if !slices.Equal(got, want) {
			t.Errorf("Rglob(*.txt) = %v, want %v", got, want)
		}

		// Yielded paths carry no metadata; they stat on demand.
		for p, err := range root.Rglob(ctx, "d.txt") {
			if err != nil {
				t.Fatalf("Rglob() error = %v", err)
			}
			isFile, err := p.IsFile(ctx)
			if err != nil || !isFile {
				t.Errorf("IsFile(%s) = %v, %v, want true", p, isFile, err)
			}
		}
	})
}
