// Package fstest provides a conformance test suite for validating backend
// implementations against the core contracts.
//
// The suite is imported and executed by backend packages to verify that
// they honor the path, stream, lock, and rewrite contracts. Backends have
// different capabilities; the configuration describes which optional
// capabilities a backend carries so the suite can assert support rather
// than skip silently.
//
// Example usage:
//
//	func TestMemoryBackend(t *testing.T) {
//	    fstest.TestSuite(t, func(t *testing.T) core.Backend {
//	        return billy.NewMemory()
//	    })
//	}
package fstest

import (
	"testing"

	"github.com/lepaperwan/bandersnatch/fs/core"
)

// Factory returns a fresh, empty backend for one test. Tests create and
// modify files, so every invocation must start clean.
type Factory func(t *testing.T) core.Backend

// Config describes backend capabilities so the suite can adapt.
type Config struct {
	// Metadata indicates the backend tracks permission bits.
	Metadata bool

	// Ownership indicates the backend reports owning user and group.
	Ownership bool

	// HardLinks indicates the backend supports hard links.
	HardLinks bool

	// Resolve indicates the backend resolves symlinks in RealPath.
	Resolve bool

	// SkipTests lists test group names to skip entirely.
	SkipTests []string
}

// LocalConfig returns the configuration for full-capability disk backends.
func LocalConfig() Config {
	return Config{Metadata: true, Ownership: true, HardLinks: true, Resolve: true}
}

// MemoryConfig returns the configuration for in-memory backends, which
// track neither permission bits nor ownership.
func MemoryConfig() Config {
	return Config{}
}

func (c Config) skip(name string) bool {
	for _, s := range c.SkipTests {
		if s == name {
			return true
		}
	}
	return false
}

// TestSuite runs all conformance tests against backends from newBackend,
// using LocalConfig.
func TestSuite(t *testing.T, newBackend Factory) {
	TestSuiteWithConfig(t, newBackend, LocalConfig())
}

// TestSuiteWithConfig runs all conformance tests with the given
// capability configuration.
func TestSuiteWithConfig(t *testing.T, newBackend Factory, cfg Config) {
	groups := []struct {
		name string
		run  func(t *testing.T, newBackend Factory, cfg Config)
	}{
		{"Metadata", TestMetadata},
		{"Mutation", TestMutation},
		{"Traversal", TestTraversal},
		{"Stream", TestStream},
		{"Lock", TestLock},
		{"Rewrite", TestRewrite},
	}
	for _, group := range groups {
		t.Run(group.name, func(t *testing.T) {
			if cfg.skip(group.name) {
				t.Skip("skipped by backend configuration")
				return
			}
			group.run(t, newBackend, cfg)
		})
	}
}
