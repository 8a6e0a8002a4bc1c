package ident_test

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lepaperwan/bandersnatch/internal/ident"
)

func TestUserAgent(t *testing.T) {
	want := fmt.Sprintf("bandersnatch/%s (%s, %s %s)",
		ident.Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	assert.Equal(t, want, ident.UserAgent())
}

func TestUserAgentStable(t *testing.T) {
	assert.Equal(t, ident.UserAgent(), ident.UserAgent())
}
