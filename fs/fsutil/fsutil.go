// Package fsutil provides helpers layered on the core contracts: name
// mangling, tree listing, concurrent checksumming, and cleanup patterns
// shared by mirror maintenance code.
package fsutil

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/lepaperwan/bandersnatch/fs/core"
)

var safeNameRe = regexp.MustCompile(`[^A-Za-z0-9.]+`)

// SafeName converts an arbitrary string to a standard distribution name:
// runs of non-alphanumeric/. characters collapse to a single '-', and the
// result is lowercased.
func SafeName(name string) string {
	return strings.ToLower(safeNameRe.ReplaceAllString(name, "-"))
}

// MakeTimestamp returns a UTC timestamp suitable for use in a filename on
// any OS (no ':' characters).
func MakeTimestamp() string {
	return strings.ReplaceAll(time.Now().UTC().Format("2006-01-02T15:04:05.000000")+"Z", ":", "")
}

// ConvertURLToPath returns the path portion of the URL without its
// leading slash, the backend-relative location mirrored content lives at.
func ConvertURLToPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}

// UnlinkParentDir removes the file at p and, if that left the parent
// directory empty, removes the parent too. A parent that still has
// entries is left alone; that failure is logged at debug level and
// swallowed, never propagated.
func UnlinkParentDir(ctx context.Context, p core.Path) error {
	slog.InfoContext(ctx, "unlink", "path", p.String())
	if err := p.Unlink(ctx, false); err != nil {
		return err
	}

	parent := p.Parent()
	if parent.IsRoot() {
		return nil
	}
	if err := parent.Rmdir(ctx); err != nil {
		slog.DebugContext(ctx, "did not remove parent", "path", parent.String(), "error", err)
		return nil
	}
	slog.InfoContext(ctx, "rmdir", "path", parent.String())
	return nil
}

// Find lists the tree under root as newline-joined relative paths, sorted,
// simulating find(1). With dirs false only files are listed. Useful in
// tests asserting on mirror layout.
func Find(ctx context.Context, root core.Path, dirs bool) (string, error) {
	var names []string
	for p, err := range root.Rglob(ctx, "*") {
		if err != nil {
			return "", err
		}
		if !dirs {
			isDir, err := p.IsDir(ctx)
			if err != nil {
				return "", err
			}
			if isDir {
				continue
			}
		}
		names = append(names, relativeTo(root, p))
	}
	sort.Strings(names)
	return strings.Join(names, "\n"), nil
}

// relativeTo strips the root prefix from p's name.
func relativeTo(root, p core.Path) string {
	if root.IsRoot() {
		return p.String()
	}
	return strings.TrimPrefix(p.String(), root.String()+"/")
}
