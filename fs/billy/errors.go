package billy

import (
	"errors"
	"syscall"
)

// isCrossDevice reports whether err is the OS "invalid cross-device link"
// failure returned when a rename spans filesystems.
func isCrossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}
