package repository

import (
	"context"
	"time"
)

// Cache names flushed by the clean hook.
const (
	CacheDiffs     = "diffs"
	CachePages     = "pages"
	CacheMeet      = "meet"
	CachePlugins   = "plugins"
	CacheReference = "reference"
)

// CacheStore is a keyed store partitioned into named caches.
type CacheStore interface {
	// Get reports ok=false on a miss.
	Get(ctx context.Context, cache, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, cache, key string, value []byte, ttl time.Duration) error
	// Flush removes every entry of the named cache.
	Flush(ctx context.Context, cache string) error
}
