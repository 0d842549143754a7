// File: internal/usecase/content_uc.go
package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"kirby-site/internal/domain"
	"kirby-site/internal/domain/model"
	"kirby-site/internal/domain/ports/repository"
	"kirby-site/internal/infra/logging"
	"kirby-site/internal/infra/metrics"

	"github.com/rs/zerolog"
)

const (
	cookbookPath  = "docs/cookbook"
	quicktipsPath = "docs/quicktips"
	errorPath     = "error"
)

// ContentUseCase resolves content pages behind the site routes.
type ContentUseCase interface {
	// Page returns the published page at path.
	Page(ctx context.Context, path string) (*model.Page, error)
	// Release finds the page of a release line, e.g. 3/8 -> releases/3-8.
	Release(ctx context.Context, generation, major, rest string) (*model.Page, error)
	// CookbookRecipe runs the recipe lookup chain and ends at the error page.
	// moved is false only when the recipe lives at the requested path.
	CookbookRecipe(ctx context.Context, category, slug string) (page *model.Page, moved bool, err error)
	// FlushCaches empties the configured caches if key matches the hooks key.
	FlushCaches(ctx context.Context, key string) error
}

var _ ContentUseCase = (*contentUC)(nil)

type contentUC struct {
	pages   repository.PageRepository
	cache   repository.CacheStore
	hookKey string
	caches  []string
	msg     Messages
	log     *zerolog.Logger
}

func NewContentUseCase(
	pages repository.PageRepository,
	cache repository.CacheStore,
	hookKey string,
	caches []string,
	msg Messages,
	logger *zerolog.Logger,
) ContentUseCase {
	return &contentUC{
		pages:   pages,
		cache:   cache,
		hookKey: hookKey,
		caches:  caches,
		msg:     msg,
		log:     logger,
	}
}

func (u *contentUC) Page(ctx context.Context, path string) (*model.Page, error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil, fmt.Errorf("%w: empty page path", domain.ErrInvalidArgument)
	}
	return u.pages.FindByPath(ctx, path)
}

// ReleasePath maps the dotted public version to the content folder name.
func ReleasePath(generation, major string) string {
	return "releases/" + generation + "-" + major
}

func (u *contentUC) Release(ctx context.Context, generation, major, rest string) (*model.Page, error) {
	path := ReleasePath(generation, major)
	if rest = strings.Trim(rest, "/"); rest != "" {
		path += "/" + rest
	}
	return u.Page(ctx, path)
}

// pageLookup is one step of a lookup chain; ErrNotFound moves on to the next.
type pageLookup func(ctx context.Context) (*model.Page, error)

func (u *contentUC) CookbookRecipe(ctx context.Context, category, slug string) (*model.Page, bool, error) {
	chain := []pageLookup{
		func(ctx context.Context) (*model.Page, error) {
			return u.pages.FindByPath(ctx, cookbookPath+"/"+category+"/"+slug)
		},
		func(ctx context.Context) (*model.Page, error) {
			return u.pages.FindGrandChildBySlug(ctx, cookbookPath, slug)
		},
		func(ctx context.Context) (*model.Page, error) {
			return u.pages.FindByPath(ctx, quicktipsPath+"/"+slug)
		},
		func(ctx context.Context) (*model.Page, error) {
			return u.pages.FindByPath(ctx, errorPath)
		},
	}
	for i, lookup := range chain {
		p, err := lookup(ctx)
		if err == nil {
			return p, i > 0, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, false, err
		}
	}
	// no error page in the content store
	return model.NewVirtualPage(errorPath, errorPath, u.msg.T("page.not_found")), true, nil
}

func (u *contentUC) FlushCaches(ctx context.Context, key string) error {
	log := logging.With(ctx, u.log)
	if u.hookKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(u.hookKey)) != 1 {
		log.Warn().Msg("cache flush rejected: invalid hooks key")
		return domain.ErrForbidden
	}

	var errs []error
	for _, name := range u.caches {
		err := u.cache.Flush(ctx, name)
		metrics.IncCacheFlush(name, err)
		if err != nil {
			errs = append(errs, fmt.Errorf("flush %s: %w", name, err))
			continue
		}
		log.Info().Str("cache", name).Msg("cache flushed")
	}
	return errors.Join(errs...)
}
