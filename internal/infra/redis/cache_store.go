package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"kirby-site/internal/domain/ports/repository"

	"github.com/go-redis/redis/v8"
)

var _ repository.CacheStore = (*CacheStore)(nil)

// CacheStore keeps named caches in Redis under "cache:<name>:<key>".
type CacheStore struct {
	client RedisClient
}

func NewCacheStore(client RedisClient) *CacheStore {
	return &CacheStore{client: client}
}

func cacheKey(cache, key string) string {
	return fmt.Sprintf("cache:%s:%s", cache, key)
}

func (s *CacheStore) Get(ctx context.Context, cache, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, cacheKey(cache, key))
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(val), true, nil
}

func (s *CacheStore) Set(ctx context.Context, cache, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, cacheKey(cache, key), value, ttl)
}

func (s *CacheStore) Flush(ctx context.Context, cache string) error {
	if strings.ContainsAny(cache, "*?[]") {
		return fmt.Errorf("invalid cache name %q", cache)
	}
	_, err := s.client.DelMatch(ctx, cacheKey(cache, "*"))
	return err
}
