package api

import (
	"context"
	"net/http"
	"time"

	"kirby-site/internal/infra/metrics"
	"kirby-site/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// HookLimiter throttles webhook calls per caller.
type HookLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// Registrar adds a group of routes to the router.
type Registrar interface {
	Register(r chi.Router)
}

// Server wires the buy flow and the site hooks to their use cases.
type Server struct {
	pricing usecase.PricingUseCase
	content usecase.ContentUseCase
	limiter HookLimiter
	log     *zerolog.Logger
}

// NewServer constructs the HTTP layer of the buy flow. limiter may be nil.
func NewServer(pricing usecase.PricingUseCase, content usecase.ContentUseCase, limiter HookLimiter, logger *zerolog.Logger) *Server {
	return &Server{pricing: pricing, content: content, limiter: limiter, log: logger}
}

// Register attaches handlers to the provided router.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Get("/hooks/clean", s.handleCleanHook)
	r.Post("/hooks/clean", s.handleCleanHook)

	r.Route("/buy", func(r chi.Router) {
		r.Post("/", s.handleBuy)
		r.Get("/prices", s.handlePrices)
		r.Get("/{product:basic|enterprise}", s.handleBuySale)
		r.Post("/volume", s.handleBuyVolume)
		r.Get("/volume/{product:basic|enterprise}/{quantity:[0-9]+}", s.handleBuyVolumePreset)
	})
}

// NewRouter builds the site router with the shared middleware stack.
// Forwarded client addresses are honoured only when trustProxy is set, i.e.
// the site runs behind a reverse proxy that overwrites those headers.
func NewRouter(logger *zerolog.Logger, requestTimeout time.Duration, trustProxy bool, notFound http.HandlerFunc, registrars ...Registrar) http.Handler {
	r := chi.NewRouter()
	if trustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(TraceID())
	r.Use(RequestLog(logger))
	r.Use(Recover(logger))
	r.Use(Timeout(requestTimeout))
	r.Use(middleware.StripSlashes)

	for _, reg := range registrars {
		reg.Register(r)
	}
	if notFound != nil {
		r.NotFound(notFound)
	}
	return r
}
