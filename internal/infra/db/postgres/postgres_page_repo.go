package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"kirby-site/internal/domain"
	"kirby-site/internal/domain/model"
	"kirby-site/internal/domain/ports/repository"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Ensure interface compliance
var _ repository.PageRepository = (*PostgresPageRepo)(nil)

type PostgresPageRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresPageRepo(pool *pgxpool.Pool) *PostgresPageRepo {
	return &PostgresPageRepo{pool: pool}
}

const pageColumns = `path, slug, template, title, body, updated_at`

func scanPage(row pgx.Row) (*model.Page, error) {
	var p model.Page
	if err := row.Scan(&p.Path, &p.Slug, &p.Template, &p.Title, &p.Body, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func normalizePath(path string) string {
	return strings.ToLower(strings.Trim(path, "/"))
}

func (r *PostgresPageRepo) FindByPath(ctx context.Context, path string) (*model.Page, error) {
	const sql = `
SELECT ` + pageColumns + `
  FROM pages
 WHERE path = $1
   AND published;
`
	p, err := scanPage(r.pool.QueryRow(ctx, sql, normalizePath(path)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("FindByPath page: %w", err)
	}
	return p, nil
}

func (r *PostgresPageRepo) FindGrandChildBySlug(ctx context.Context, parent, slug string) (*model.Page, error) {
	// exactly two segments below parent, first match in sort order wins
	pattern := "^" + regexp.QuoteMeta(normalizePath(parent)) + "/[^/]+/[^/]+$"
	const sql = `
SELECT ` + pageColumns + `
  FROM pages
 WHERE slug = $1
   AND path ~ $2
   AND published
 ORDER BY sort, path
 LIMIT 1;
`
	p, err := scanPage(r.pool.QueryRow(ctx, sql, strings.ToLower(slug), pattern))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("FindGrandChildBySlug page: %w", err)
	}
	return p, nil
}
