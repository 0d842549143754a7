package api

import (
	"errors"
	"net/http"
	"time"

	"kirby-site/internal/domain"
	"kirby-site/internal/infra/logging"
	"kirby-site/internal/infra/metrics"
	"kirby-site/internal/infra/redis"
)

const (
	hookLimit  = 10
	hookWindow = time.Minute
)

// handleCleanHook flushes the site caches when the key matches. The caller is
// always sent home, whatever the outcome.
func (s *Server) handleCleanHook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logging.With(ctx, s.log)

	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, redis.HookKey("clean", ClientIP(r)), hookLimit, hookWindow)
		if err != nil {
			log.Warn().Err(err).Msg("hook rate limiter unavailable")
		} else if !ok {
			metrics.IncHookRateLimited("clean")
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
	}

	if err := s.content.FlushCaches(ctx, r.FormValue("key")); err != nil && !errors.Is(err, domain.ErrForbidden) {
		log.Error().Err(err).Msg("cache flush incomplete")
	}
	http.Redirect(w, r, "/", http.StatusFound)
}
