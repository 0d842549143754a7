//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"kirby-site/internal/domain"
	"kirby-site/internal/domain/model"
	"kirby-site/internal/domain/ports/adapter"
	"kirby-site/internal/domain/ports/repository"
	"kirby-site/internal/infra/i18n"

	"github.com/shopspring/decimal"
)

// -----------------------------
// Utilities: tiny helpers
// -----------------------------

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestTranslator(t *testing.T) *i18n.Translator {
	t.Helper()
	tr, err := i18n.NewTranslator(i18n.LocalesFS, "en")
	if err != nil {
		t.Fatalf("translator: %v", err)
	}
	return tr
}

// newTestCatalog: basic 100 EUR, enterprise 400 EUR on sale for 350,
// 5/10/15 percent off from 5/10/15 licenses, donation 10 + 1 per license.
func newTestCatalog(t *testing.T) *model.Catalog {
	t.Helper()
	schedule, err := model.NewDiscountSchedule([]model.VolumeDiscount{
		{MinQuantity: 5, Percent: dec("5")},
		{MinQuantity: 10, Percent: dec("10")},
		{MinQuantity: 15, Percent: dec("15")},
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	basic, err := model.NewReferencePrice("EUR", dec("100"), decimal.Zero, schedule)
	if err != nil {
		t.Fatalf("basic price: %v", err)
	}
	enterprise, err := model.NewReferencePrice("EUR", dec("400"), dec("350"), schedule)
	if err != nil {
		t.Fatalf("enterprise price: %v", err)
	}
	c, err := model.NewCatalog("EUR", 500, model.Donation{
		CustomerAmount: dec("10"),
		TeamAmount:     dec("1"),
		Charity:        "Save the Children",
	},
		&model.Product{ID: model.ProductBasic, ProcessorID: "1", RevenueLimit: "Revenue limit: €1M per year.", Price: basic},
		&model.Product{ID: model.ProductEnterprise, ProcessorID: "2", RevenueLimit: "No revenue limit.", Price: enterprise},
	)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return c
}

// =============================
// Adapters
// =============================

// ---- Mock VisitorResolver ----

// MockVisitorResolver answers by country; unknown countries fail resolution.
type MockVisitorResolver struct {
	mu    sync.Mutex
	Calls []visitorCall
	ByIP  map[string]string // ip -> country
}

type visitorCall struct{ Country, IP string }

var _ adapter.VisitorResolver = (*MockVisitorResolver)(nil)

func NewMockVisitorResolver() *MockVisitorResolver {
	return &MockVisitorResolver{ByIP: map[string]string{"81.2.69.160": "US"}}
}

func (m *MockVisitorResolver) Visitor(_ context.Context, country, ip string) *model.Visitor {
	m.mu.Lock()
	m.Calls = append(m.Calls, visitorCall{Country: country, IP: ip})
	m.mu.Unlock()

	if country == "" {
		country = m.ByIP[ip]
	}
	limit := dec("1000000")
	switch strings.ToUpper(country) {
	case "DE", "AT":
		vat := dec("0.19")
		v := model.NewFallbackVisitor(country, "EUR", limit, nil)
		v.VATRate = &vat
		return v
	case "US":
		rate := dec("1.1")
		return &model.Visitor{
			Country:      "US",
			Currency:     "USD",
			CurrencySign: "$",
			RevenueLimit: model.FormatRevenueLimit("$", limit.Mul(rate)),
			Rate:         rate,
		}
	default:
		return model.NewFallbackVisitor(country, "EUR", limit, domain.ErrVisitorResolution)
	}
}

// ---- Mock CheckoutGateway ----

type MockCheckoutGateway struct {
	mu       sync.Mutex
	Flows    []string
	Requests []*model.CheckoutRequest
	Err      error
}

var _ adapter.CheckoutGateway = (*MockCheckoutGateway)(nil)

func (m *MockCheckoutGateway) Name() string { return "mock" }

func (m *MockCheckoutGateway) Checkout(_ context.Context, flow string, req *model.CheckoutRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	m.Flows = append(m.Flows, flow)
	m.Requests = append(m.Requests, req)
	return "https://pay.test/" + req.Passthrough.CheckoutID, nil
}

// =============================
// Repositories
// =============================

// memPageRepo serves pages by path and counts lookups.
type memPageRepo struct {
	pages  map[string]*model.Page
	Err    error
	Lookup []string
}

var _ repository.PageRepository = (*memPageRepo)(nil)

func newMemPageRepo(paths ...string) *memPageRepo {
	r := &memPageRepo{pages: map[string]*model.Page{}}
	for _, p := range paths {
		slug := p[strings.LastIndex(p, "/")+1:]
		r.pages[p] = &model.Page{Path: p, Slug: slug, Template: "default", Title: slug, UpdatedAt: time.Now()}
	}
	return r
}

func (r *memPageRepo) FindByPath(_ context.Context, path string) (*model.Page, error) {
	r.Lookup = append(r.Lookup, path)
	if r.Err != nil {
		return nil, r.Err
	}
	if p, ok := r.pages[path]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memPageRepo) FindGrandChildBySlug(_ context.Context, parent, slug string) (*model.Page, error) {
	r.Lookup = append(r.Lookup, "grandchild:"+parent+":"+slug)
	if r.Err != nil {
		return nil, r.Err
	}
	for path, p := range r.pages {
		rest, ok := strings.CutPrefix(path, parent+"/")
		if ok && strings.Count(rest, "/") == 1 && p.Slug == slug {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

// memCacheStore records flushed cache names.
type memCacheStore struct {
	Flushed []string
	FailOn  string
}

var _ repository.CacheStore = (*memCacheStore)(nil)

func (c *memCacheStore) Get(context.Context, string, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (c *memCacheStore) Set(context.Context, string, string, []byte, time.Duration) error {
	return nil
}

func (c *memCacheStore) Flush(_ context.Context, cache string) error {
	if cache == c.FailOn {
		return errors.New("connection reset")
	}
	c.Flushed = append(c.Flushed, cache)
	return nil
}
