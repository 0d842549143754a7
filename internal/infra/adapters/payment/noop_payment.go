package payment

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"kirby-site/internal/domain/model"
	"kirby-site/internal/domain/ports/adapter"

	"github.com/shopspring/decimal"
)

var (
	_ adapter.CheckoutGateway = (*NoopCheckoutGateway)(nil)
	_ adapter.VisitorResolver = (*NoopVisitorResolver)(nil)
)

// NoopCheckoutGateway records checkout requests in memory and returns a fake
// pay link. Used in dev mode and tests.
type NoopCheckoutGateway struct {
	mu       sync.Mutex
	seq      int64
	Requests []*model.CheckoutRequest
}

func NewNoopCheckoutGateway() *NoopCheckoutGateway {
	return &NoopCheckoutGateway{}
}

func (g *NoopCheckoutGateway) Name() string { return "noop" }

func (g *NoopCheckoutGateway) Checkout(ctx context.Context, flow string, req *model.CheckoutRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	g.Requests = append(g.Requests, req)
	q := url.Values{}
	q.Set("product", string(req.Product.ID))
	q.Set("quantity", fmt.Sprint(req.Quantity))
	for _, p := range req.UnitPrices() {
		q.Add("prices[]", p)
	}
	return fmt.Sprintf("https://example.test/%s/pay/noop-%d?%s", strings.Trim(flow, "/"), g.seq, q.Encode()), nil
}

// NoopVisitorResolver treats every visitor as a reference currency buyer
// without VAT information.
type NoopVisitorResolver struct {
	refCurrency  string
	revenueLimit decimal.Decimal
}

func NewNoopVisitorResolver(refCurrency string, revenueLimit decimal.Decimal) *NoopVisitorResolver {
	return &NoopVisitorResolver{refCurrency: refCurrency, revenueLimit: revenueLimit}
}

func (r *NoopVisitorResolver) Visitor(_ context.Context, country, _ string) *model.Visitor {
	return model.NewFallbackVisitor(country, r.refCurrency, r.revenueLimit, nil)
}
