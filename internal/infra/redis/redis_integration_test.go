//go:build integration

package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"kirby-site/internal/config"
)

func TestCacheStore_RealRedis(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_URL")
	if addr == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	client, err := NewClient(ctx, &config.RedisConfig{URL: addr})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	store := NewCacheStore(client)
	for _, k := range []string{"a", "b", "c"} {
		if err := store.Set(ctx, "reference", k, []byte(k), time.Minute); err != nil {
			t.Fatalf("Set %s: %v", k, err)
		}
	}
	if err := store.Flush(ctx, "reference"); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if _, ok, err := store.Get(ctx, "reference", k); ok || err != nil {
			t.Errorf("expected %s to be flushed, ok=%v err=%v", k, ok, err)
		}
	}
}
