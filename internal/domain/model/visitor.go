package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Visitor is the pricing context of a single request. It is resolved per
// request and never shared.
type Visitor struct {
	Country      string
	Currency     string
	CurrencySign string
	// VATRate is nil when VAT does not apply or is unknown.
	VATRate *decimal.Decimal
	// RevenueLimit describes the license revenue limit in the visitor currency.
	RevenueLimit string
	// Rate converts reference currency amounts into Currency.
	Rate decimal.Decimal
	// Err records a failed resolution. The other fields then hold safe
	// reference-currency defaults.
	Err error
}

// NewFallbackVisitor returns a visitor in the reference currency with no VAT
// information, carrying err as its error state.
func NewFallbackVisitor(country, referenceCurrency string, revenueLimit decimal.Decimal, err error) *Visitor {
	sign := CurrencySign(referenceCurrency)
	return &Visitor{
		Country:      strings.ToUpper(country),
		Currency:     referenceCurrency,
		CurrencySign: sign,
		RevenueLimit: FormatRevenueLimit(sign, revenueLimit),
		Rate:         decimal.NewFromInt(1),
		Err:          err,
	}
}

// Status is "OK" for a cleanly resolved visitor and the error text otherwise.
func (v *Visitor) Status() string {
	if v.Err != nil {
		return v.Err.Error()
	}
	return "OK"
}

// VATRateOrZero reports the VAT rate, treating unknown as 0.
func (v *Visitor) VATRateOrZero() decimal.Decimal {
	if v.VATRate == nil {
		return decimal.Zero
	}
	return *v.VATRate
}

// PriceFor converts a reference price into the visitor currency.
func (v *Visitor) PriceFor(reference Price) Price {
	if v.Currency == reference.Currency {
		return reference
	}
	return reference.In(v.Currency, v.Rate)
}

var currencySigns = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "¥",
	"INR": "₹",
	"KRW": "₩",
	"RUB": "₽",
	"TRY": "₺",
	"PLN": "zł",
	"BRL": "R$",
	"AUD": "A$",
	"CAD": "C$",
	"NZD": "NZ$",
	"HKD": "HK$",
	"SGD": "S$",
	"MXN": "MX$",
	"CHF": "CHF ",
	"SEK": "kr ",
	"NOK": "kr ",
	"DKK": "kr ",
	"CZK": "Kč ",
	"HUF": "Ft ",
	"ZAR": "R ",
	"ILS": "₪",
	"UAH": "₴",
	"THB": "฿",
	"TWD": "NT$",
	"ARS": "ARS ",
}

// CurrencySign returns the display prefix for an ISO 4217 code. Unknown codes
// fall back to the code followed by a space.
func CurrencySign(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if s, ok := currencySigns[code]; ok {
		return s
	}
	return code + " "
}

var million = decimal.NewFromInt(1_000_000)

// FormatRevenueLimit renders an amount in millions, e.g. "€1M" or "$1.1M".
func FormatRevenueLimit(sign string, amount decimal.Decimal) string {
	if amount.GreaterThanOrEqual(million) {
		return sign + amount.Div(million).Round(1).String() + "M"
	}
	return sign + amount.Round(0).String()
}
