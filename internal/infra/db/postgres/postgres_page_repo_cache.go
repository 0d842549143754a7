package postgres

import (
	"context"
	"encoding/json"
	"time"

	"kirby-site/internal/domain/model"
	"kirby-site/internal/domain/ports/repository"
	"kirby-site/internal/infra/metrics"

	"github.com/rs/zerolog"
)

var _ repository.PageRepository = (*pageRepoCacheDecorator)(nil)

// pageRepoCacheDecorator is a read-through cache over the page repository
// backed by the "pages" named cache, which the clean hook flushes.
type pageRepoCacheDecorator struct {
	inner repository.PageRepository
	cache repository.CacheStore
	ttl   time.Duration
	log   *zerolog.Logger
}

func NewPageRepoCacheDecorator(inner repository.PageRepository, cache repository.CacheStore, ttl time.Duration, logger *zerolog.Logger) repository.PageRepository {
	return &pageRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   ttl,
		log:   logger,
	}
}

func (d *pageRepoCacheDecorator) FindByPath(ctx context.Context, path string) (*model.Page, error) {
	return d.cached(ctx, "path:"+normalizePath(path), func() (*model.Page, error) {
		return d.inner.FindByPath(ctx, path)
	})
}

func (d *pageRepoCacheDecorator) FindGrandChildBySlug(ctx context.Context, parent, slug string) (*model.Page, error) {
	return d.cached(ctx, "grandchild:"+normalizePath(parent)+":"+slug, func() (*model.Page, error) {
		return d.inner.FindGrandChildBySlug(ctx, parent, slug)
	})
}

func (d *pageRepoCacheDecorator) cached(ctx context.Context, key string, load func() (*model.Page, error)) (*model.Page, error) {
	val, ok, err := d.cache.Get(ctx, repository.CachePages, key)
	if err != nil {
		d.log.Warn().Err(err).Str("key", key).Msg("page cache read failed")
	}
	if ok {
		var page model.Page
		if json.Unmarshal(val, &page) == nil {
			metrics.IncCacheRequest(repository.CachePages, "hit")
			return &page, nil
		}
	}

	metrics.IncCacheRequest(repository.CachePages, "miss")
	page, err := load()
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(page); err == nil {
		if err := d.cache.Set(ctx, repository.CachePages, key, b, d.ttl); err != nil {
			d.log.Warn().Err(err).Str("key", key).Msg("page cache write failed")
		}
	}
	return page, nil
}
