package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(cacheRequestsTotal, cacheFlushesTotal) }

var (
	cacheRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Tracks cache hits and misses for various caches.",
		},
		[]string{"cache", "result"}, // e.g., cache="pages", result="hit"
	)

	cacheFlushesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_flushes_total",
			Help: "Named cache flushes triggered by the clean hook.",
		},
		[]string{"cache", "result"},
	)
)

func IncCacheRequest(cacheName, result string) {
	cacheRequestsTotal.WithLabelValues(norm(cacheName), norm(result)).Inc()
}

func IncCacheFlush(cacheName string, err error) {
	result := "ok"
	if err != nil {
		result = "fail"
	}
	cacheFlushesTotal.WithLabelValues(norm(cacheName), result).Inc()
}
