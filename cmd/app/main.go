// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kirby-site/internal/config"
	"kirby-site/internal/domain/ports/adapter"
	"kirby-site/internal/domain/ports/repository"
	payAdapters "kirby-site/internal/infra/adapters/payment"
	"kirby-site/internal/infra/api"
	pg "kirby-site/internal/infra/db/postgres"
	"kirby-site/internal/infra/i18n"
	"kirby-site/internal/infra/logging"
	"kirby-site/internal/infra/memcache"
	"kirby-site/internal/infra/metrics"
	red "kirby-site/internal/infra/redis"
	"kirby-site/internal/infra/scheduler"
	"kirby-site/internal/infra/web"
	"kirby-site/internal/usecase"

	"github.com/shopspring/decimal"
)

// set by -ldflags at build time
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop payment processor)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	poolStats := scheduler.NewScheduler("pool_stats", 15*time.Second, pg.PoolStatsJob(pool), logger)
	poolStats.Start(ctx)
	defer poolStats.Stop()

	// ---- Cache: Redis when configured, in-process otherwise ----
	var (
		cache   repository.CacheStore
		limiter api.HookLimiter
	)
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		cache = red.NewCacheStore(redisClient)
		limiter = red.NewRateLimiter(redisClient)
	} else {
		logger.Info().Msg("redis not configured, using in-process cache")
		cache = memcache.NewStore(cfg.Redis.TTL)
	}

	// ---- Catalog & messages ----
	catalog, err := cfg.Buy.Catalog()
	if err != nil {
		logger.Fatal().Err(err).Msg("catalog")
	}
	translator, err := i18n.NewTranslator(i18n.LocalesFS, "en")
	if err != nil {
		logger.Fatal().Err(err).Msg("i18n")
	}

	// ---- Payment processor ----
	revenueLimit := decimal.NewFromFloat(cfg.Buy.RevenueLimit)
	var (
		gateway  adapter.CheckoutGateway
		visitors adapter.VisitorResolver
	)
	if cfg.Runtime.Dev {
		gateway = payAdapters.NewNoopCheckoutGateway()
		visitors = payAdapters.NewNoopVisitorResolver(catalog.ReferenceCurrency(), revenueLimit)
	} else {
		pgw, err := payAdapters.NewPaddleGateway(cfg.Paddle.VendorID, cfg.Paddle.VendorAuthCode, cfg.Server.BaseURL, cfg.Paddle.Sandbox, cfg.Paddle.Timeout, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("paddle gateway")
		}
		rateProduct, err := catalog.Product(cfg.Paddle.RateProduct)
		if err != nil {
			logger.Fatal().Err(err).Msg("paddle rate product")
		}
		gateway = pgw
		visitors = payAdapters.NewPaddleVisitorResolver(rateProduct, revenueLimit, cfg.Paddle.Sandbox, cfg.Paddle.Timeout, logger)
	}

	// ---- Repositories ----
	pageRepo := pg.NewPageRepoCacheDecorator(pg.NewPostgresPageRepo(pool), cache, cfg.Redis.TTL, logger)

	// ---- Use cases ----
	pricingUC := usecase.NewPricingUseCase(catalog, visitors, gateway, translator, cfg.Buy.SupportEmail, logger)
	contentUC := usecase.NewContentUseCase(pageRepo, cache, cfg.Hooks.Key, cfg.Hooks.Caches, translator, logger)

	// ---- HTTP ----
	site := web.NewServer(contentUC, web.NewRenderer(translator.T("page.not_found")), logger)
	handler := api.NewRouter(logger, cfg.Server.RequestTimeout, cfg.Server.TrustProxy, site.NotFound,
		api.NewServer(pricingUC, contentUC, limiter, logger),
		site,
	)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Str("gateway", gateway.Name()).Str("version", version).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
			cancel()
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
		logger.Info().Msg("shutdown requested")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
