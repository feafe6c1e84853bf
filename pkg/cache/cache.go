// Package cache stores rendered artifacts keyed by the script that produced
// them.
//
// Rendering a comparison with gnuplot is the slowest step of the pipeline.
// When neither the data nor the layout changed, the generated script is
// byte-identical and the cached PDF is reused.
//
//	c, err := cache.NewFileCache(cache.DefaultDir())
//	key := cache.NewDefaultKeyer().ArtifactKey(cache.Hash(script), cache.ArtifactKeyOpts{Format: "pdf"})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// DefaultDir returns the per-user cache directory, falling back to the
// system temp directory.
func DefaultDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "testplot")
}

// ArtifactKeyOpts are the render settings that change an artifact for the
// same script.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Engine string `json:"engine,omitempty"` // engine command line
}

// Keyer builds cache keys.
type Keyer interface {
	ArtifactKey(scriptHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns the key of a rendered artifact.
func (DefaultKeyer) ArtifactKey(scriptHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", scriptHash, opts)
}
