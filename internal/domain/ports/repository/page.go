package repository

import (
	"context"

	"kirby-site/internal/domain/model"
)

// PageRepository reads published content pages.
type PageRepository interface {
	// FindByPath returns domain.ErrNotFound when no page lives at path.
	FindByPath(ctx context.Context, path string) (*model.Page, error)
	// FindGrandChildBySlug searches the pages two levels below parent.
	FindGrandChildBySlug(ctx context.Context, parent, slug string) (*model.Page, error)
}
