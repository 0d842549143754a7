//go:build !integration

package postgres

import (
	"context"
	"errors"
	"time"

	"kirby-site/internal/domain/model"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerPageRepo mocks the database repository that the page decorator wraps.
type mockInnerPageRepo struct {
	FindByPathFunc           func(ctx context.Context, path string) (*model.Page, error)
	FindGrandChildBySlugFunc func(ctx context.Context, parent, slug string) (*model.Page, error)
	calls                    int
}

func (m *mockInnerPageRepo) FindByPath(ctx context.Context, path string) (*model.Page, error) {
	m.calls++
	return m.FindByPathFunc(ctx, path)
}

func (m *mockInnerPageRepo) FindGrandChildBySlug(ctx context.Context, parent, slug string) (*model.Page, error) {
	m.calls++
	return m.FindGrandChildBySlugFunc(ctx, parent, slug)
}

// mockCacheStore is a map backed CacheStore that records writes.
type mockCacheStore struct {
	data   map[string][]byte
	sets   []string
	GetErr error
}

func newMockCacheStore() *mockCacheStore {
	return &mockCacheStore{data: map[string][]byte{}}
}

func (m *mockCacheStore) Get(_ context.Context, cache, key string) ([]byte, bool, error) {
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	v, ok := m.data[cache+":"+key]
	return v, ok, nil
}

func (m *mockCacheStore) Set(_ context.Context, cache, key string, value []byte, _ time.Duration) error {
	m.data[cache+":"+key] = value
	m.sets = append(m.sets, cache+":"+key)
	return nil
}

func (m *mockCacheStore) Flush(_ context.Context, cache string) error {
	return errors.New("not implemented")
}
