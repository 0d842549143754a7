// File: internal/usecase/pricing_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"kirby-site/internal/domain"
	"kirby-site/internal/domain/model"
	"kirby-site/internal/domain/ports/adapter"
	"kirby-site/internal/infra/logging"
	"kirby-site/internal/infra/metrics"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Purchase variants, used as metric labels and on the checkout request.
const (
	VariantCustom = "custom"
	VariantSale   = "sale"
	VariantVolume = "volume"
)

// Messages formats user facing texts by key.
type Messages interface {
	T(key string, args ...interface{}) string
}

// PricingUseCase computes prices and builds processor checkouts.
type PricingUseCase interface {
	// QuotePrices never fails; visitor problems are reported in PriceList.Status.
	QuotePrices(ctx context.Context, country, ip string) *PriceList

	// BuildCheckout prices a purchase from the buy form. The visitor is resolved
	// from the billing country, never from the IP.
	BuildCheckout(ctx context.Context, in CheckoutInput) (*model.CheckoutRequest, error)
	// BuildSaleCheckout is the one license purchase at the sale price.
	BuildSaleCheckout(ctx context.Context, productID, ip string) (*model.CheckoutRequest, error)
	// BuildVolumeCheckout is a preset volume purchase without donation.
	BuildVolumeCheckout(ctx context.Context, productID string, quantity int, ip string) (*model.CheckoutRequest, error)

	// Checkout hands req to the processor and returns the pay link.
	Checkout(ctx context.Context, flow string, req *model.CheckoutRequest) (string, error)

	// ContactMessage renders a checkout failure for the buyer.
	ContactMessage(err error) string
}

// CheckoutInput carries the buy form.
type CheckoutInput struct {
	ProductID string
	Quantity  int
	Donate    bool
	Billing   model.Billing
}

type ProductQuote struct {
	ID      model.ProductID
	Regular decimal.Decimal
	Sale    decimal.Decimal
}

// PriceList is the localized catalog shown on the buy page.
type PriceList struct {
	Status       string
	Country      string
	CurrencySign string
	Products     []ProductQuote
	// Donation amounts stay in the reference currency.
	CustomerDonation decimal.Decimal
	TeamDonation     decimal.Decimal
	// RevenueLimit is empty for reference currency visitors.
	RevenueLimit string
	VATRate      decimal.Decimal
}

var _ PricingUseCase = (*pricingUC)(nil)

type pricingUC struct {
	catalog      *model.Catalog
	visitors     adapter.VisitorResolver
	gateway      adapter.CheckoutGateway
	msg          Messages
	supportEmail string
	log          *zerolog.Logger
}

// NewPricingUseCase wires the catalog with the processor adapters.
func NewPricingUseCase(
	catalog *model.Catalog,
	visitors adapter.VisitorResolver,
	gateway adapter.CheckoutGateway,
	msg Messages,
	supportEmail string,
	logger *zerolog.Logger,
) PricingUseCase {
	return &pricingUC{
		catalog:      catalog,
		visitors:     visitors,
		gateway:      gateway,
		msg:          msg,
		supportEmail: supportEmail,
		log:          logger,
	}
}

func (u *pricingUC) QuotePrices(ctx context.Context, country, ip string) *PriceList {
	defer logging.TraceDuration(u.log, "PricingUC.QuotePrices")()

	v := u.visitors.Visitor(ctx, country, ip)
	donation := u.catalog.Donation()

	list := &PriceList{
		Status:           v.Status(),
		Country:          v.Country,
		CurrencySign:     v.CurrencySign,
		CustomerDonation: donation.CustomerAmount,
		TeamDonation:     donation.TeamAmount,
		VATRate:          v.VATRateOrZero(),
	}
	for _, p := range u.catalog.Products() {
		local := v.PriceFor(p.Price)
		list.Products = append(list.Products, ProductQuote{ID: p.ID, Regular: local.Regular, Sale: local.Sale})
	}
	if v.Currency != u.catalog.ReferenceCurrency() {
		list.RevenueLimit = u.msg.T("prices.revenue_limit", v.RevenueLimit)
	}

	if v.Err != nil {
		metrics.IncPriceQuote("degraded")
	} else {
		metrics.IncPriceQuote("ok")
	}
	return list
}

func (u *pricingUC) BuildCheckout(ctx context.Context, in CheckoutInput) (*model.CheckoutRequest, error) {
	defer logging.TraceDuration(u.log, "PricingUC.BuildCheckout")()

	quantity := u.catalog.RestrictQuantity(in.Quantity)
	v, err := u.visitor(ctx, in.Billing.Country, "")
	if err != nil {
		return nil, err
	}
	product, err := u.catalog.Product(in.ProductID)
	if err != nil {
		return nil, err
	}

	donation := u.catalog.Donation()
	q := decimal.NewFromInt(int64(quantity))
	local := v.PriceFor(product.Price)

	refTotal := product.Price.Volume(quantity)
	localTotal := local.Volume(quantity)
	message := product.RevenueLimit
	pt := model.Passthrough{
		CheckoutID:       ulid.Make().String(),
		CustomerDonation: decimal.Zero,
		TeamDonation:     donation.TeamAmount.Mul(q),
	}

	if in.Donate {
		// flat in the reference total, converted at the visitor rate locally
		pt.CustomerDonation = donation.CustomerAmount.Mul(q)
		refTotal = refTotal.Add(pt.CustomerDonation)
		localTotal = localTotal.Add(local.Convert(pt.CustomerDonation))

		sign := model.CurrencySign(u.catalog.ReferenceCurrency())
		message += u.msg.T("checkout.donation", sign+pt.CustomerDonation.String(), donation.Charity)
	}

	billing := in.Billing
	req := &model.CheckoutRequest{
		Variant:           VariantCustom,
		Product:           product,
		Quantity:          quantity,
		ReferenceCurrency: u.catalog.ReferenceCurrency(),
		ReferenceTotal:    refTotal,
		Currency:          local.Currency,
		LocalTotal:        localTotal,
		Message:           message,
		Billing:           &billing,
		Passthrough:       pt,
	}

	u.logBuilt(ctx, req, v, in.Donate)
	return req, nil
}

func (u *pricingUC) BuildSaleCheckout(ctx context.Context, productID, ip string) (*model.CheckoutRequest, error) {
	defer logging.TraceDuration(u.log, "PricingUC.BuildSaleCheckout")()

	v, err := u.visitor(ctx, "", ip)
	if err != nil {
		return nil, err
	}
	product, err := u.catalog.Product(productID)
	if err != nil {
		return nil, err
	}
	local := v.PriceFor(product.Price)
	req := &model.CheckoutRequest{
		Variant:           VariantSale,
		Product:           product,
		Quantity:          1,
		ReferenceCurrency: u.catalog.ReferenceCurrency(),
		ReferenceTotal:    product.Price.Sale,
		Currency:          local.Currency,
		LocalTotal:        local.Sale,
		Passthrough: model.Passthrough{
			CheckoutID:       ulid.Make().String(),
			CustomerDonation: decimal.Zero,
			TeamDonation:     u.catalog.Donation().TeamAmount,
		},
	}
	u.logBuilt(ctx, req, v, false)
	return req, nil
}

func (u *pricingUC) BuildVolumeCheckout(ctx context.Context, productID string, quantity int, ip string) (*model.CheckoutRequest, error) {
	defer logging.TraceDuration(u.log, "PricingUC.BuildVolumeCheckout")()

	quantity = u.catalog.RestrictQuantity(quantity)
	v, err := u.visitor(ctx, "", ip)
	if err != nil {
		return nil, err
	}
	product, err := u.catalog.Product(productID)
	if err != nil {
		return nil, err
	}
	local := v.PriceFor(product.Price)
	req := &model.CheckoutRequest{
		Variant:           VariantVolume,
		Product:           product,
		Quantity:          quantity,
		ReferenceCurrency: u.catalog.ReferenceCurrency(),
		ReferenceTotal:    product.Price.Volume(quantity),
		Currency:          local.Currency,
		LocalTotal:        local.Volume(quantity),
		Passthrough: model.Passthrough{
			CheckoutID:       ulid.Make().String(),
			CustomerDonation: decimal.Zero,
			TeamDonation:     u.catalog.Donation().TeamAmount.Mul(decimal.NewFromInt(int64(quantity))),
		},
	}
	u.logBuilt(ctx, req, v, false)
	return req, nil
}

func (u *pricingUC) logBuilt(ctx context.Context, req *model.CheckoutRequest, v *model.Visitor, donate bool) {
	logging.With(logging.WithCheckoutID(ctx, req.Passthrough.CheckoutID), u.log).Info().
		Str("variant", req.Variant).
		Str("product", string(req.Product.ID)).
		Int("quantity", req.Quantity).
		Bool("donate", donate).
		Str("country", v.Country).
		Strs("prices", req.Prices()).
		Msg("checkout built")
}

func (u *pricingUC) Checkout(ctx context.Context, flow string, req *model.CheckoutRequest) (string, error) {
	defer logging.TraceDuration(u.log, "PricingUC.Checkout")()

	if req == nil || req.Product == nil {
		return "", fmt.Errorf("%w: empty checkout request", domain.ErrInvalidArgument)
	}
	ctx = logging.WithCheckoutID(ctx, req.Passthrough.CheckoutID)
	log := logging.With(ctx, u.log)

	payURL, err := u.gateway.Checkout(ctx, flow, req)
	if err != nil {
		metrics.IncCheckout(string(req.Product.ID), req.Variant, "failed")
		log.Error().Err(err).Str("gateway", u.gateway.Name()).Msg("checkout failed")
		if !errors.Is(err, domain.ErrCheckoutFailed) {
			err = fmt.Errorf("%w: %v", domain.ErrCheckoutFailed, err)
		}
		return "", err
	}

	metrics.IncCheckout(string(req.Product.ID), req.Variant, "redirected")
	metrics.AddCheckoutRevenue(req.ReferenceCurrency, req.ReferenceTotal)
	if req.Passthrough.CustomerDonation.IsPositive() {
		metrics.AddCustomerDonation(req.Passthrough.CustomerDonation)
	}
	log.Info().Str("gateway", u.gateway.Name()).Str("variant", req.Variant).Msg("redirecting to checkout")
	return payURL, nil
}

// ContactMessage is HTML; the error text may carry request input and is escaped.
func (u *pricingUC) ContactMessage(err error) string {
	text := "Unexpected error"
	if err != nil {
		text = err.Error()
	}
	return u.msg.T("checkout.contact", html.EscapeString(text), html.EscapeString(u.supportEmail))
}

// visitor resolves the buyer; an unresolved visitor cannot check out.
func (u *pricingUC) visitor(ctx context.Context, country, ip string) (*model.Visitor, error) {
	v := u.visitors.Visitor(ctx, strings.TrimSpace(country), ip)
	if v.Err != nil {
		return nil, v.Err
	}
	return v, nil
}
