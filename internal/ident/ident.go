// Package ident provides the process identity string shared by all
// outbound network collaborators.
package ident

import (
	"fmt"
	"runtime"
	"sync"
)

// Version is the release version stamped into the identity string.
const Version = "6.0.0.dev0"

// userAgent is computed once at first use and reused for every outbound
// request for the life of the process.
var userAgent = sync.OnceValue(func() string {
	return fmt.Sprintf("bandersnatch/%s (%s, %s %s)",
		Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
})

// UserAgent returns the canonical identification string, in the form
// "<product>/<version> (<runtime-id>, <os> <arch>)".
func UserAgent() string {
	return userAgent()
}
