package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"kirby-site/internal/domain"
	"kirby-site/internal/domain/model"
	"kirby-site/internal/infra/logging"
	"kirby-site/internal/usecase"

	"github.com/go-chi/chi/v5"
)

const checkoutFlow = "buy"

// priceListResponse is the JSON shape the buy page script reads.
type priceListResponse struct {
	Status       string         `json:"status"`
	Country      string         `json:"country"`
	Currency     string         `json:"currency"`
	Prices       map[string]any `json:"prices"`
	RevenueLimit string         `json:"revenueLimit"`
	VATRate      float64        `json:"vatRate"`
}

type priceEntry struct {
	Regular float64 `json:"regular"`
	Sale    float64 `json:"sale"`
}

type donationEntry struct {
	Customer float64 `json:"customer"`
	Team     float64 `json:"team"`
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	list := s.pricing.QuotePrices(r.Context(), strings.TrimSpace(r.URL.Query().Get("country")), ClientIP(r))

	prices := map[string]any{
		"donation": donationEntry{
			Customer: list.CustomerDonation.InexactFloat64(),
			Team:     list.TeamDonation.InexactFloat64(),
		},
	}
	for _, p := range list.Products {
		prices[string(p.ID)] = priceEntry{Regular: p.Regular.InexactFloat64(), Sale: p.Sale.InexactFloat64()}
	}

	respondJSON(w, http.StatusOK, priceListResponse{
		Status:       list.Status,
		Country:      list.Country,
		Currency:     list.CurrencySign,
		Prices:       prices,
		RevenueLimit: list.RevenueLimit,
		VATRate:      list.VATRate.InexactFloat64(),
	})
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.fail(w, r, err)
		return
	}
	in := usecase.CheckoutInput{
		ProductID: r.PostForm.Get("product"),
		Quantity:  formInt(r.PostForm.Get("quantity"), 1),
		Donate:    r.PostForm.Get("donate") == "on",
		Billing: model.Billing{
			City:       r.PostForm.Get("city"),
			Company:    r.PostForm.Get("company"),
			Country:    r.PostForm.Get("country"),
			Email:      r.PostForm.Get("email"),
			PostalCode: r.PostForm.Get("postalCode"),
			State:      r.PostForm.Get("state"),
			Street:     r.PostForm.Get("street"),
			VATID:      r.PostForm.Get("vatId"),
			Newsletter: r.PostForm.Get("newsletter") == "on",
		},
	}
	req, err := s.pricing.BuildCheckout(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.redirectToCheckout(w, r, req)
}

func (s *Server) handleBuySale(w http.ResponseWriter, r *http.Request) {
	req, err := s.pricing.BuildSaleCheckout(r.Context(), chi.URLParam(r, "product"), ClientIP(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.redirectToCheckout(w, r, req)
}

func (s *Server) handleBuyVolume(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.fail(w, r, err)
		return
	}
	product := r.PostForm.Get("product")
	if product == "" {
		product = string(model.ProductBasic)
	}
	req, err := s.pricing.BuildVolumeCheckout(r.Context(), product, formInt(r.PostForm.Get("volume"), 5), ClientIP(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.redirectToCheckout(w, r, req)
}

func (s *Server) handleBuyVolumePreset(w http.ResponseWriter, r *http.Request) {
	// the route pattern only admits digits; overflow still falls back
	quantity := formInt(chi.URLParam(r, "quantity"), 5)
	req, err := s.pricing.BuildVolumeCheckout(r.Context(), chi.URLParam(r, "product"), quantity, ClientIP(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.redirectToCheckout(w, r, req)
}

func (s *Server) redirectToCheckout(w http.ResponseWriter, r *http.Request, req *model.CheckoutRequest) {
	payURL, err := s.pricing.Checkout(r.Context(), checkoutFlow, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	http.Redirect(w, r, payURL, http.StatusFound)
}

// fail ends a checkout with the contact message. It never redirects.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadGateway
	if errors.Is(err, domain.ErrUnknownProduct) || errors.Is(err, domain.ErrInvalidArgument) {
		status = http.StatusBadRequest
	}
	logging.With(r.Context(), s.log).Warn().Err(err).Int("status", status).Str("path", r.URL.Path).Msg("checkout aborted")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(s.pricing.ContactMessage(err)))
}

// formInt parses a form number, using def for empty or malformed input.
func formInt(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return n
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(data)
}
