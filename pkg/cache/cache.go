// Package cache stores generated task artifacts between runs.
//
// A [Cache] is a byte-oriented key/value store with TTLs. Three backends
// ship with the package:
//
//   - [FileCache]: one JSON file per entry under a local directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for several generators or the API
//   - [NullCache]: stores nothing (--no-cache)
//
// Keys come from a [Keyer]. They hash the generation options together with
// the per-task seed, so identical inputs map to the same entry no matter
// which backend or batch produced it.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long generated artifacts stay cached.
const DefaultTTL = 24 * time.Hour

// Cache is a key/value store for serialized artifacts.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// Key type prefixes, also reported to observability hooks.
const (
	KeyTypeTask  = "task"
	KeyTypeVideo = "video"
)

// Keyer builds cache keys.
type Keyer interface {
	// TaskKey identifies the images, prompt and metadata of one task.
	TaskKey(optionsHash string, seed uint64) string

	// VideoKey identifies the ground-truth video of one task.
	VideoKey(optionsHash string, seed uint64, format string) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TaskKey returns "task:<sha256>".
func (DefaultKeyer) TaskKey(optionsHash string, seed uint64) string {
	return hashKey(KeyTypeTask, optionsHash, seed)
}

// VideoKey returns "video:<sha256>".
func (DefaultKeyer) VideoKey(optionsHash string, seed uint64, format string) string {
	return hashKey(KeyTypeVideo, optionsHash, seed, format)
}
