// File: internal/infra/adapters/payment/paddle_gateway.go
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"kirby-site/internal/domain"
	"kirby-site/internal/domain/model"
	"kirby-site/internal/domain/ports/adapter"
	"kirby-site/internal/infra/metrics"

	"github.com/rs/zerolog"
)

var _ adapter.CheckoutGateway = (*PaddleGateway)(nil)

// PaddleGateway implements adapter.CheckoutGateway with the Paddle Classic
// vendor API (product/generate_pay_link).
type PaddleGateway struct {
	vendorID   string
	authCode   string
	siteURL    string
	vendorBase string
	client     *http.Client
	log        *zerolog.Logger
}

func NewPaddleGateway(vendorID, authCode, siteURL string, sandbox bool, timeout time.Duration, logger *zerolog.Logger) (*PaddleGateway, error) {
	if vendorID == "" || authCode == "" {
		return nil, errors.New("paddle vendor credentials empty")
	}
	if _, err := url.Parse(siteURL); err != nil {
		return nil, fmt.Errorf("invalid site url: %w", err)
	}
	base := "https://vendors.paddle.com/api/2.0"
	if sandbox {
		base = "https://sandbox-vendors.paddle.com/api/2.0"
	}
	return &PaddleGateway{
		vendorID:   vendorID,
		authCode:   authCode,
		siteURL:    strings.TrimRight(siteURL, "/"),
		vendorBase: base,
		client:     &http.Client{Timeout: timeout},
		log:        logger,
	}, nil
}

// SetVendorBase points the gateway at another API origin (tests, proxies).
func (g *PaddleGateway) SetVendorBase(base string) { g.vendorBase = strings.TrimRight(base, "/") }

func (g *PaddleGateway) Name() string { return "paddle" }

// payLinkForm encodes req as the generate_pay_link form body.
func (g *PaddleGateway) payLinkForm(flow string, req *model.CheckoutRequest) (url.Values, error) {
	passthrough, err := req.Passthrough.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode passthrough: %w", err)
	}
	form := url.Values{}
	form.Set("vendor_id", g.vendorID)
	form.Set("vendor_auth_code", g.authCode)
	form.Set("product_id", req.Product.ProcessorID)
	// prices per license
	for _, p := range req.UnitPrices() {
		form.Add("prices[]", p)
	}
	form.Set("quantity", strconv.Itoa(req.Quantity))
	form.Set("quantity_variable", "0")
	form.Set("passthrough", passthrough)
	form.Set("return_url", g.siteURL+"/"+strings.Trim(flow, "/")+"/thanks")
	if req.Message != "" {
		form.Set("custom_message", req.Message)
	}

	if b := req.Billing; b != nil {
		setIf(form, "customer_country", b.Country)
		setIf(form, "customer_email", b.Email)
		setIf(form, "customer_postcode", b.PostalCode)
		setIf(form, "vat_city", b.City)
		setIf(form, "vat_country", b.Country)
		setIf(form, "vat_company_name", b.Company)
		setIf(form, "vat_number", b.VATID)
		setIf(form, "vat_postcode", b.PostalCode)
		setIf(form, "vat_state", b.State)
		setIf(form, "vat_street", b.Street)
		if b.Newsletter {
			form.Set("marketing_consent", "1")
		} else {
			form.Set("marketing_consent", "0")
		}
	}
	return form, nil
}

func setIf(form url.Values, key, value string) {
	if value != "" {
		form.Set(key, value)
	}
}

// Checkout calls generate_pay_link and returns the hosted checkout URL.
func (g *PaddleGateway) Checkout(ctx context.Context, flow string, req *model.CheckoutRequest) (payURL string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveProcessorCall("pay_link", start, err) }()

	if req == nil || req.Product == nil {
		return "", fmt.Errorf("%w: empty checkout request", domain.ErrInvalidArgument)
	}
	form, err := g.payLinkForm(flow, req)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.vendorBase+"/product/generate_pay_link", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCheckoutFailed, err)
	}
	defer resp.Body.Close()

	var out struct {
		Success  bool `json:"success"`
		Response struct {
			URL string `json:"url"`
		} `json:"response"`
		Error *paddleError `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode pay link response (http %d): %v", domain.ErrCheckoutFailed, resp.StatusCode, err)
	}
	if !out.Success || out.Response.URL == "" {
		return "", fmt.Errorf("%w: %s", domain.ErrCheckoutFailed, out.Error)
	}

	g.log.Debug().
		Str("product", string(req.Product.ID)).
		Int("quantity", req.Quantity).
		Strs("prices", req.Prices()).
		Msg("paddle pay link created")
	return out.Response.URL, nil
}

type paddleError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *paddleError) String() string {
	if e == nil {
		return "paddle request failed"
	}
	return fmt.Sprintf("paddle error %d: %s", e.Code, e.Message)
}
