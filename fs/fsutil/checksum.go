package fsutil

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"hash"
	"io"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lepaperwan/bandersnatch/fs/core"
)

// checksumChunk keeps hashing reads bounded so cancellation is observed
// between chunks even on very large files.
const checksumChunk = 128 * 1024

// NewHash is the hash constructor used by Checksum; SHA-256 by default.
// Swap it process-wide to mirror against indexes using another digest.
var NewHash func() hash.Hash = sha256.New

// Checksum reads the file at p in chunks and returns the hex digest.
func Checksum(ctx context.Context, p core.Path) (string, error) {
	f, err := p.Open(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := NewHash()
	buf := make([]byte, checksumChunk)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		n, err := f.Read(ctx, buf)
		h.Write(buf[:n])
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ChecksumTree hashes every regular file under root concurrently and
// returns digests keyed by backend path. The hashing fan-out is bounded
// by workers (defaulting to GOMAXPROCS), so CPU-bound digest work runs on
// a worker pool instead of the traversing goroutine; the first failure
// cancels the remaining workers.
func ChecksumTree(ctx context.Context, root core.Path, workers int) (map[string]string, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var mu sync.Mutex
	sums := make(map[string]string)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for p, err := range root.Rglob(ctx, "*") {
		if err != nil {
			_ = g.Wait()
			return nil, err
		}
		isFile, err := p.IsFile(ctx)
		if err != nil {
			_ = g.Wait()
			return nil, err
		}
		if !isFile {
			continue
		}
		g.Go(func() error {
			sum, err := Checksum(ctx, p)
			if err != nil {
				return err
			}
			mu.Lock()
			sums[p.String()] = sum
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sums, nil
}
