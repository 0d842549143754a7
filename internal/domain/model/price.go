package model

import (
	"fmt"
	"sort"

	"kirby-site/internal/domain"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// VolumeDiscount grants Percent off every unit once at least MinQuantity
// units are bought in one purchase.
type VolumeDiscount struct {
	MinQuantity int
	Percent     decimal.Decimal
}

// DiscountSchedule is a list of volume discounts ordered by MinQuantity.
type DiscountSchedule []VolumeDiscount

// NewDiscountSchedule sorts and validates the tiers. A schedule is rejected
// when a higher tier would lower the per-unit discount or make buying one more
// license cheaper than buying one less.
func NewDiscountSchedule(tiers []VolumeDiscount) (DiscountSchedule, error) {
	s := make(DiscountSchedule, len(tiers))
	copy(s, tiers)
	sort.Slice(s, func(i, j int) bool { return s[i].MinQuantity < s[j].MinQuantity })

	prevPct := decimal.Zero
	prevQty := 1
	for _, t := range s {
		if t.MinQuantity <= prevQty {
			return nil, fmt.Errorf("%w: discount tier min quantity %d must be greater than %d", domain.ErrInvalidArgument, t.MinQuantity, prevQty)
		}
		if t.Percent.IsNegative() || t.Percent.GreaterThanOrEqual(hundred) {
			return nil, fmt.Errorf("%w: discount percent %s out of range", domain.ErrInvalidArgument, t.Percent)
		}
		if t.Percent.LessThan(prevPct) {
			return nil, fmt.Errorf("%w: discount percent %s lower than previous tier %s", domain.ErrInvalidArgument, t.Percent, prevPct)
		}
		// q*(100-p) >= (q-1)*(100-prev) keeps the total non-decreasing at the breakpoint
		q := decimal.NewFromInt(int64(t.MinQuantity))
		at := q.Mul(hundred.Sub(t.Percent))
		before := q.Sub(decimal.NewFromInt(1)).Mul(hundred.Sub(prevPct))
		if at.LessThan(before) {
			return nil, fmt.Errorf("%w: buying %d licenses would cost less than %d", domain.ErrInvalidArgument, t.MinQuantity, t.MinQuantity-1)
		}
		prevPct = t.Percent
		prevQty = t.MinQuantity
	}
	return s, nil
}

// PercentFor returns the discount percentage that applies to quantity units.
func (s DiscountSchedule) PercentFor(quantity int) decimal.Decimal {
	pct := decimal.Zero
	for _, t := range s {
		if quantity < t.MinQuantity {
			break
		}
		pct = t.Percent
	}
	return pct
}

// Price is the cost of one license in a given currency. Rate is the number of
// Currency units per unit of the reference currency (1 for the reference
// price itself).
type Price struct {
	Currency  string
	Regular   decimal.Decimal
	Sale      decimal.Decimal
	Rate      decimal.Decimal
	Discounts DiscountSchedule
}

// NewReferencePrice builds a price in the reference currency. A zero sale
// amount means there is no sale and the regular price applies.
func NewReferencePrice(currency string, regular, sale decimal.Decimal, discounts DiscountSchedule) (Price, error) {
	if currency == "" || !regular.IsPositive() {
		return Price{}, domain.ErrInvalidArgument
	}
	if sale.IsZero() {
		sale = regular
	}
	if sale.IsNegative() || sale.GreaterThan(regular) {
		return Price{}, fmt.Errorf("%w: sale price %s must be between 0 and regular price %s", domain.ErrInvalidArgument, sale, regular)
	}
	return Price{
		Currency:  currency,
		Regular:   regular,
		Sale:      sale,
		Rate:      decimal.NewFromInt(1),
		Discounts: discounts,
	}, nil
}

// In converts the price into another currency using rate, the number of
// target units per reference unit.
func (p Price) In(currency string, rate decimal.Decimal) Price {
	out := Price{
		Currency:  currency,
		Rate:      rate,
		Discounts: p.Discounts,
	}
	out.Regular = out.Convert(p.Regular)
	out.Sale = out.Convert(p.Sale)
	return out
}

// Convert turns a reference currency amount into this price's currency.
func (p Price) Convert(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(p.Rate).Round(2)
}

// UnitVolume is the discounted price of a single license when quantity
// licenses are bought together.
func (p Price) UnitVolume(quantity int) decimal.Decimal {
	pct := p.Discounts.PercentFor(quantity)
	return p.Regular.Mul(hundred.Sub(pct)).Div(hundred)
}

// Volume is the total for quantity licenses with the volume discount applied.
func (p Price) Volume(quantity int) decimal.Decimal {
	if quantity < 1 {
		return decimal.Zero
	}
	return p.UnitVolume(quantity).Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}
