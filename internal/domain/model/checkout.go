package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Billing carries the buyer's contact and VAT details verbatim from the form.
type Billing struct {
	City       string
	Company    string
	Country    string
	Email      string
	PostalCode string
	State      string
	Street     string
	VATID      string
	Newsletter bool
}

// Passthrough travels opaquely through the payment processor and comes back
// with the fulfillment webhook.
type Passthrough struct {
	CheckoutID       string
	CustomerDonation decimal.Decimal
	TeamDonation     decimal.Decimal
}

// Encode renders the passthrough as the JSON string the processor stores.
func (p Passthrough) Encode() (string, error) {
	b, err := json.Marshal(struct {
		CheckoutID       string      `json:"checkoutId,omitempty"`
		CustomerDonation json.Number `json:"customerDonation"`
		TeamDonation     json.Number `json:"teamDonation"`
	}{
		CheckoutID:       p.CheckoutID,
		CustomerDonation: json.Number(p.CustomerDonation.String()),
		TeamDonation:     json.Number(p.TeamDonation.String()),
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckoutRequest is everything the processor needs to open a hosted checkout.
// ReferenceTotal and LocalTotal describe the same purchase in two currencies.
type CheckoutRequest struct {
	// Variant names the purchase path: custom, sale or volume.
	Variant           string
	Product           *Product
	Quantity          int
	ReferenceCurrency string
	ReferenceTotal    decimal.Decimal
	Currency          string
	LocalTotal        decimal.Decimal
	Message           string
	// Billing is nil for the preset purchase links.
	Billing     *Billing
	Passthrough Passthrough
}

// Prices lists both totals as "CUR:amount" pairs, reference currency first.
func (r *CheckoutRequest) Prices() []string {
	return []string{
		r.ReferenceCurrency + ":" + r.ReferenceTotal.String(),
		r.Currency + ":" + r.LocalTotal.String(),
	}
}

// UnitPrices lists the per-license price in both currencies, the form the
// processor multiplies by Quantity.
func (r *CheckoutRequest) UnitPrices() []string {
	q := decimal.NewFromInt(int64(r.Quantity))
	if r.Quantity < 1 {
		q = decimal.NewFromInt(1)
	}
	return []string{
		r.ReferenceCurrency + ":" + r.ReferenceTotal.DivRound(q, 2).String(),
		r.Currency + ":" + r.LocalTotal.DivRound(q, 2).String(),
	}
}
