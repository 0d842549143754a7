//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"

	"kirby-site/internal/domain"
)

func seedPage(t *testing.T, path, slug, title string, sort int, published bool) {
	t.Helper()
	_, err := testPool.Exec(context.Background(),
		`INSERT INTO pages (path, slug, template, title, body, sort, published) VALUES ($1, $2, 'default', $3, '', $4, $5)`,
		path, slug, title, sort, published)
	if err != nil {
		t.Fatalf("seed page %s: %v", path, err)
	}
}

func TestPostgresPageRepo_FindByPath(t *testing.T) {
	cleanup(t)
	ctx := context.Background()
	repo := NewPostgresPageRepo(testPool)
	seedPage(t, "docs/cookbook", "cookbook", "Cookbook", 0, true)
	seedPage(t, "docs/draft", "draft", "Draft", 0, false)

	page, err := repo.FindByPath(ctx, "/Docs/Cookbook/")
	if err != nil {
		t.Fatalf("FindByPath: %v", err)
	}
	if page.Title != "Cookbook" {
		t.Errorf("unexpected title %q", page.Title)
	}

	if _, err := repo.FindByPath(ctx, "docs/draft"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unpublished page should be ErrNotFound, got %v", err)
	}
	if _, err := repo.FindByPath(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresPageRepo_FindGrandChildBySlug(t *testing.T) {
	cleanup(t)
	ctx := context.Background()
	repo := NewPostgresPageRepo(testPool)
	seedPage(t, "docs/cookbook/setup", "setup", "Setup", 0, true)
	seedPage(t, "docs/cookbook/setup/git", "git", "Git", 2, true)
	seedPage(t, "docs/cookbook/content/git", "git", "Git content", 1, true)
	seedPage(t, "docs/cookbook/setup/git/deep", "deep", "Too deep", 0, true)

	page, err := repo.FindGrandChildBySlug(ctx, "docs/cookbook", "git")
	if err != nil {
		t.Fatalf("FindGrandChildBySlug: %v", err)
	}
	if page.Path != "docs/cookbook/content/git" {
		t.Errorf("expected first sorted match, got %s", page.Path)
	}

	if _, err := repo.FindGrandChildBySlug(ctx, "docs/cookbook", "setup"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("children are not grandchildren, got %v", err)
	}
	if _, err := repo.FindGrandChildBySlug(ctx, "docs/cookbook", "deep"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("great-grandchildren must not match, got %v", err)
	}
}
