//go:build unix

package billy

import (
	"io/fs"
	"os/user"
	"strconv"
	"syscall"

	"github.com/lepaperwan/bandersnatch/fs/core"
)

// lookupOwner resolves the owning user name from the stat result.
func lookupOwner(info fs.FileInfo) (string, error) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return "", core.ErrUnsupported
	}
	u, err := user.LookupId(strconv.FormatUint(uint64(st.Uid), 10))
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

// lookupGroup resolves the owning group name from the stat result.
func lookupGroup(info fs.FileInfo) (string, error) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return "", core.ErrUnsupported
	}
	g, err := user.LookupGroupId(strconv.FormatUint(uint64(st.Gid), 10))
	if err != nil {
		return "", err
	}
	return g.Name, nil
}

// differentDevice reports whether the two stat results live on different
// devices.
func differentDevice(a, b fs.FileInfo) bool {
	sa, okA := a.Sys().(*syscall.Stat_t)
	sb, okB := b.Sys().(*syscall.Stat_t)
	if !okA || !okB {
		return false
	}
	return sa.Dev != sb.Dev
}
