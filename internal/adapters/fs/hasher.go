// Package fs implements file fingerprinting and output verification.
package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/flo/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes xxhash content fingerprints.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// Fingerprint computes the content fingerprint of a single file.
func (h *Hasher) Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "opening file for fingerprint"), "path", path)
	}
	defer f.Close()

	digest := xxhash.New()
	if _, err := io.Copy(digest, f); err != nil {
		return "", zerr.With(zerr.Wrap(err, "hashing file content"), "path", path)
	}
	return fmt.Sprintf("%016x", digest.Sum64()), nil
}

// FingerprintAll fingerprints every path resolved against root, a bounded
// number of files at a time. A missing file is an error; the first failure
// cancels the remaining work.
func (h *Hasher) FingerprintAll(root string, paths []string) (map[string]string, error) {
	fingerprints := make(map[string]string, len(paths))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for _, path := range paths {
		g.Go(func() error {
			sum, err := h.Fingerprint(filepath.Join(root, path))
			if err != nil {
				return err
			}
			mu.Lock()
			fingerprints[path] = sum
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return fingerprints, nil
}
