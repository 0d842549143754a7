package model

import (
	"fmt"
	"strings"

	"kirby-site/internal/domain"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type ProductID string

const (
	ProductBasic      ProductID = "basic"
	ProductEnterprise ProductID = "enterprise"
)

// Product is one license type of the fixed catalog.
type Product struct {
	ID ProductID
	// ProcessorID identifies the product at the payment processor.
	ProcessorID string
	// RevenueLimit is the license disclaimer that opens every checkout message.
	RevenueLimit string
	Price        Price
}

// Donation holds the flat per-license donation amounts in the reference
// currency and the charity that receives customer donations.
type Donation struct {
	CustomerAmount decimal.Decimal
	TeamAmount     decimal.Decimal
	Charity        string
}

// Catalog is the immutable set of purchasable products plus the rules that
// apply to every purchase.
type Catalog struct {
	products          map[ProductID]*Product
	order             []ProductID
	referenceCurrency string
	maxQuantity       int
	donation          Donation
}

// NewCatalog validates and constructs a catalog. Products must all be priced in
// the reference currency.
func NewCatalog(referenceCurrency string, maxQuantity int, donation Donation, products ...*Product) (*Catalog, error) {
	if referenceCurrency == "" || maxQuantity < 1 || len(products) == 0 {
		return nil, domain.ErrInvalidArgument
	}
	if donation.CustomerAmount.IsNegative() || donation.TeamAmount.IsNegative() {
		return nil, fmt.Errorf("%w: donation amounts must not be negative", domain.ErrInvalidArgument)
	}
	c := &Catalog{
		products:          make(map[ProductID]*Product, len(products)),
		referenceCurrency: referenceCurrency,
		maxQuantity:       maxQuantity,
		donation:          donation,
	}
	for _, p := range products {
		if p == nil || p.ID == "" {
			return nil, domain.ErrInvalidArgument
		}
		if p.Price.Currency != referenceCurrency {
			return nil, fmt.Errorf("%w: product %s priced in %s, want %s", domain.ErrInvalidArgument, p.ID, p.Price.Currency, referenceCurrency)
		}
		if _, dup := c.products[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate product %s", domain.ErrInvalidArgument, p.ID)
		}
		c.products[p.ID] = p
		c.order = append(c.order, p.ID)
	}
	return c, nil
}

// Product looks up a product by identifier.
func (c *Catalog) Product(id string) (*Product, error) {
	p, ok := c.products[ProductID(strings.TrimSpace(id))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownProduct, id)
	}
	return p, nil
}

// Products returns the catalog in configuration order.
func (c *Catalog) Products() []*Product {
	return lo.Map(c.order, func(id ProductID, _ int) *Product { return c.products[id] })
}

// RestrictQuantity clamps quantity into [1, max quantity].
func (c *Catalog) RestrictQuantity(quantity int) int {
	return lo.Clamp(quantity, 1, c.maxQuantity)
}

func (c *Catalog) MaxQuantity() int          { return c.maxQuantity }
func (c *Catalog) ReferenceCurrency() string { return c.referenceCurrency }
func (c *Catalog) Donation() Donation        { return c.donation }
