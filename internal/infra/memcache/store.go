package memcache

import (
	"context"
	"strings"
	"time"

	"kirby-site/internal/domain/ports/repository"

	goCache "github.com/patrickmn/go-cache"
)

// DefaultCleanupInterval is how often expired items are removed.
const DefaultCleanupInterval = 10 * time.Minute

var _ repository.CacheStore = (*Store)(nil)

// Store is the in-process CacheStore used when no Redis is configured.
// Entries live under "<cache>:<key>".
type Store struct {
	cache *goCache.Cache
}

func NewStore(defaultTTL time.Duration) *Store {
	return &Store{cache: goCache.New(defaultTTL, DefaultCleanupInterval)}
}

func (s *Store) Get(_ context.Context, cache, key string) ([]byte, bool, error) {
	v, ok := s.cache.Get(cache + ":" + key)
	if !ok {
		return nil, false, nil
	}
	b, ok := v.([]byte)
	return b, ok, nil
}

func (s *Store) Set(_ context.Context, cache, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = goCache.DefaultExpiration
	}
	s.cache.Set(cache+":"+key, value, ttl)
	return nil
}

func (s *Store) Flush(_ context.Context, cache string) error {
	prefix := cache + ":"
	for k := range s.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			s.cache.Delete(k)
		}
	}
	return nil
}
