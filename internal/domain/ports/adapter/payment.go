package adapter

import (
	"context"

	"kirby-site/internal/domain/model"
)

// CheckoutGateway is the hex port for the hosted checkout of the payment
// processor.
type CheckoutGateway interface {
	Name() string

	// Checkout creates a pay link for req and returns the hosted checkout URL.
	// flow names the site flow the buyer returns to after paying.
	Checkout(ctx context.Context, flow string, req *model.CheckoutRequest) (payURL string, err error)
}

// VisitorResolver determines country, currency and VAT for a request.
// A non-empty country bypasses IP geolocation entirely. Resolution problems
// are reported through Visitor.Err together with safe defaults, never as a nil
// visitor.
type VisitorResolver interface {
	Visitor(ctx context.Context, country, ip string) *model.Visitor
}
