// Package billy provides the reference core.Backend implementations,
// built on go-billy filesystems by composition.
//
// Two backends are provided. LocalFS wraps an osfs rooted at a directory
// and supports every optional capability: permission bits, ownership,
// symlinks and hard links, symlink resolution, and OS advisory locks
// (flock tokens in ".<name>.lock" sibling files). MemoryFS wraps a memfs
// and is intended for tests and ephemeral staging; it emulates locks with
// an in-process table and reports ErrUnsupported for capabilities an
// in-memory filesystem cannot honor.
//
// Both backends keep go-billy reachable through Unwrap for callers that
// integrate with other go-billy consumers.
package billy
