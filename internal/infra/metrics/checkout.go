package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

func init() {
	register(
		checkoutsTotal,
		checkoutRevenueTotal,
		customerDonationsTotal,
		priceQuotesTotal,
	)
}

var (
	checkoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkouts_total",
			Help: "Checkout redirects by product, purchase variant and result (redirected/failed).",
		},
		[]string{"product", "variant", "result"},
	)

	checkoutRevenueTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_revenue_total",
			Help: "Reference currency value of checkouts handed to the processor.",
		},
		[]string{"currency"},
	)

	customerDonationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_customer_donations_total",
			Help: "Reference currency value of customer donations added at checkout.",
		},
	)

	priceQuotesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_quotes_total",
			Help: "Price list queries by visitor resolution status (ok/degraded).",
		},
		[]string{"status"},
	)
)

func IncCheckout(product, variant, result string) {
	checkoutsTotal.WithLabelValues(norm(product), norm(variant), norm(result)).Inc()
}

func AddCheckoutRevenue(currency string, amount decimal.Decimal) {
	checkoutRevenueTotal.WithLabelValues(norm(currency)).Add(amount.InexactFloat64())
}

func AddCustomerDonation(amount decimal.Decimal) {
	customerDonationsTotal.Add(amount.InexactFloat64())
}

func IncPriceQuote(status string) {
	priceQuotesTotal.WithLabelValues(norm(status)).Inc()
}
