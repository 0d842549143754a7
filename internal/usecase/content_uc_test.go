//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"kirby-site/internal/domain"
	"kirby-site/internal/domain/ports/repository"
	"kirby-site/internal/infra/logging"
	"kirby-site/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allCaches = []string{
	repository.CacheDiffs,
	repository.CacheMeet,
	repository.CachePages,
	repository.CachePlugins,
	repository.CacheReference,
}

func newContentUC(t *testing.T, pages *memPageRepo, cache *memCacheStore) usecase.ContentUseCase {
	t.Helper()
	return usecase.NewContentUseCase(pages, cache, "s3cret", allCaches, newTestTranslator(t), logging.Nop())
}

func TestContentUseCase_Release(t *testing.T) {
	pages := newMemPageRepo("releases/3-8", "releases/3-8/changelog")
	uc := newContentUC(t, pages, &memCacheStore{})
	ctx := context.Background()

	p, err := uc.Release(ctx, "3", "8", "")
	require.NoError(t, err)
	assert.Equal(t, "releases/3-8", p.Path)

	p, err = uc.Release(ctx, "3", "8", "/changelog/")
	require.NoError(t, err)
	assert.Equal(t, "releases/3-8/changelog", p.Path)

	_, err = uc.Release(ctx, "4", "0", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, "releases/3-8", usecase.ReleasePath("3", "8"))
}

func TestContentUseCase_CookbookRecipe(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		pages    []string
		category string
		slug     string
		want     string
		moved    bool
	}{
		{
			name:     "exact path wins",
			pages:    []string{"docs/cookbook/setup/git", "docs/quicktips/git", "error"},
			category: "setup",
			slug:     "git",
			want:     "docs/cookbook/setup/git",
		},
		{
			name:     "moved recipe found by slug",
			pages:    []string{"docs/cookbook/content/git", "docs/quicktips/git", "error"},
			category: "setup",
			slug:     "git",
			want:     "docs/cookbook/content/git",
			moved:    true,
		},
		{
			name:     "quicktip fallback",
			pages:    []string{"docs/quicktips/git", "error"},
			category: "setup",
			slug:     "git",
			want:     "docs/quicktips/git",
			moved:    true,
		},
		{
			name:     "error page",
			pages:    []string{"error"},
			category: "setup",
			slug:     "git",
			want:     "error",
			moved:    true,
		},
		{
			name:     "virtual error page",
			category: "setup",
			slug:     "git",
			want:     "error",
			moved:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newContentUC(t, newMemPageRepo(tt.pages...), &memCacheStore{})
			p, moved, err := uc.CookbookRecipe(ctx, tt.category, tt.slug)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Path)
			assert.Equal(t, tt.moved, moved)
		})
	}

	t.Run("store errors stop the chain", func(t *testing.T) {
		pages := newMemPageRepo()
		pages.Err = errors.New("pool closed")
		uc := newContentUC(t, pages, &memCacheStore{})
		_, _, err := uc.CookbookRecipe(ctx, "setup", "git")
		assert.Error(t, err)
		assert.Len(t, pages.Lookup, 1)
	})

	t.Run("virtual error page title", func(t *testing.T) {
		uc := newContentUC(t, newMemPageRepo(), &memCacheStore{})
		p, _, err := uc.CookbookRecipe(ctx, "setup", "git")
		require.NoError(t, err)
		assert.Equal(t, "Page not found", p.Title)
	})
}

func TestContentUseCase_Page(t *testing.T) {
	uc := newContentUC(t, newMemPageRepo("plugins"), &memCacheStore{})

	p, err := uc.Page(context.Background(), "/plugins/")
	require.NoError(t, err)
	assert.Equal(t, "/plugins", p.URL())

	_, err = uc.Page(context.Background(), "/")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestContentUseCase_FlushCaches(t *testing.T) {
	ctx := context.Background()

	t.Run("valid key flushes every cache", func(t *testing.T) {
		cache := &memCacheStore{}
		uc := newContentUC(t, newMemPageRepo(), cache)
		require.NoError(t, uc.FlushCaches(ctx, "s3cret"))
		assert.Equal(t, allCaches, cache.Flushed)
	})

	t.Run("wrong key flushes nothing", func(t *testing.T) {
		cache := &memCacheStore{}
		uc := newContentUC(t, newMemPageRepo(), cache)
		assert.ErrorIs(t, uc.FlushCaches(ctx, "guess"), domain.ErrForbidden)
		assert.ErrorIs(t, uc.FlushCaches(ctx, ""), domain.ErrForbidden)
		assert.Empty(t, cache.Flushed)
	})

	t.Run("empty configured key disables the hook", func(t *testing.T) {
		cache := &memCacheStore{}
		uc := usecase.NewContentUseCase(newMemPageRepo(), cache, "", allCaches, newTestTranslator(t), logging.Nop())
		assert.ErrorIs(t, uc.FlushCaches(ctx, ""), domain.ErrForbidden)
		assert.Empty(t, cache.Flushed)
	})

	t.Run("one failing cache does not stop the others", func(t *testing.T) {
		cache := &memCacheStore{FailOn: repository.CacheMeet}
		uc := newContentUC(t, newMemPageRepo(), cache)
		err := uc.FlushCaches(ctx, "s3cret")
		assert.ErrorContains(t, err, "flush meet")
		assert.Len(t, cache.Flushed, 4)
	})
}
