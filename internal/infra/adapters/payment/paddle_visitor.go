// File: internal/infra/adapters/payment/paddle_visitor.go
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kirby-site/internal/domain"
	"kirby-site/internal/domain/model"
	"kirby-site/internal/domain/ports/adapter"
	"kirby-site/internal/infra/logging"
	"kirby-site/internal/infra/metrics"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var _ adapter.VisitorResolver = (*PaddleVisitorResolver)(nil)

// PaddleVisitorResolver derives the visitor from the public Paddle prices
// API. The localized list price of one reference product, divided by its
// reference price, gives the exchange rate for the whole catalog.
type PaddleVisitorResolver struct {
	checkoutBase string
	rateProduct  *model.Product
	refCurrency  string
	revenueLimit decimal.Decimal
	client       *http.Client
	log          *zerolog.Logger
}

func NewPaddleVisitorResolver(rateProduct *model.Product, revenueLimit decimal.Decimal, sandbox bool, timeout time.Duration, logger *zerolog.Logger) *PaddleVisitorResolver {
	base := "https://checkout.paddle.com/api/2.0"
	if sandbox {
		base = "https://sandbox-checkout.paddle.com/api/2.0"
	}
	return &PaddleVisitorResolver{
		checkoutBase: base,
		rateProduct:  rateProduct,
		refCurrency:  rateProduct.Price.Currency,
		revenueLimit: revenueLimit,
		client:       &http.Client{Timeout: timeout},
		log:          logger,
	}
}

// SetCheckoutBase points the resolver at another API origin (tests, proxies).
func (r *PaddleVisitorResolver) SetCheckoutBase(base string) {
	r.checkoutBase = strings.TrimRight(base, "/")
}

type paddleAmount struct {
	Gross decimal.Decimal `json:"gross"`
	Net   decimal.Decimal `json:"net"`
	Tax   decimal.Decimal `json:"tax"`
}

type pricesResponse struct {
	Success  bool `json:"success"`
	Response struct {
		CustomerCountry string `json:"customer_country"`
		Products        []struct {
			ProductID int          `json:"product_id"`
			Currency  string       `json:"currency"`
			Price     paddleAmount `json:"price"`
			ListPrice paddleAmount `json:"list_price"`
		} `json:"products"`
	} `json:"response"`
	Error *paddleError `json:"error"`
}

// Visitor never fails: resolution problems come back as a fallback visitor
// in the reference currency with Err set.
func (r *PaddleVisitorResolver) Visitor(ctx context.Context, country, ip string) *model.Visitor {
	country = strings.ToUpper(strings.TrimSpace(country))
	v, err := r.resolve(ctx, country, ip)
	if err != nil {
		logging.With(ctx, r.log).Warn().Err(err).
			Str("country", country).
			Str("ip", logging.Redact(ip, false)).
			Msg("visitor resolution failed, using reference currency")
		return model.NewFallbackVisitor(country, r.refCurrency, r.revenueLimit, fmt.Errorf("%w: %v", domain.ErrVisitorResolution, err))
	}
	return v
}

func (r *PaddleVisitorResolver) resolve(ctx context.Context, country, ip string) (v *model.Visitor, err error) {
	start := time.Now()
	defer func() { metrics.ObserveProcessorCall("prices", start, err) }()

	q := url.Values{}
	q.Set("product_ids", r.rateProduct.ProcessorID)
	// an explicit country wins, the IP is not even sent
	if country != "" {
		q.Set("customer_country", country)
	} else if ip != "" {
		q.Set("customer_ip", ip)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.checkoutBase+"/prices?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out pricesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode prices response (http %d): %w", resp.StatusCode, err)
	}
	if !out.Success {
		return nil, fmt.Errorf("%s", out.Error)
	}
	if len(out.Response.Products) == 0 {
		return nil, fmt.Errorf("no price for product %s", r.rateProduct.ProcessorID)
	}

	p := out.Response.Products[0]
	currency := strings.ToUpper(p.Currency)
	if currency == "" {
		return nil, fmt.Errorf("no currency for product %s", r.rateProduct.ProcessorID)
	}

	rate := decimal.NewFromInt(1)
	if currency != r.refCurrency {
		if !p.ListPrice.Net.IsPositive() {
			return nil, fmt.Errorf("invalid list price %s %s", p.ListPrice.Net, currency)
		}
		rate = p.ListPrice.Net.DivRound(r.rateProduct.Price.Regular, 6)
	}

	resolvedCountry := strings.ToUpper(out.Response.CustomerCountry)
	if resolvedCountry == "" {
		resolvedCountry = country
	}

	sign := model.CurrencySign(currency)
	v = &model.Visitor{
		Country:      resolvedCountry,
		Currency:     currency,
		CurrencySign: sign,
		RevenueLimit: model.FormatRevenueLimit(sign, r.revenueLimit.Mul(rate)),
		Rate:         rate,
	}
	if p.Price.Net.IsPositive() && p.Price.Tax.IsPositive() {
		vat := p.Price.Tax.DivRound(p.Price.Net, 4)
		v.VATRate = &vat
	}
	return v, nil
}
