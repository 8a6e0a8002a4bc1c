//go:build !unix

package billy

import (
	"io/fs"

	"github.com/lepaperwan/bandersnatch/fs/core"
)

// lookupOwner is unsupported on platforms without POSIX stat identity.
func lookupOwner(fs.FileInfo) (string, error) {
	return "", core.ErrUnsupported
}

// lookupGroup is unsupported on platforms without POSIX stat identity.
func lookupGroup(fs.FileInfo) (string, error) {
	return "", core.ErrUnsupported
}

func differentDevice(fs.FileInfo, fs.FileInfo) bool {
	return false
}
