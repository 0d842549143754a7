package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(httpRequestDuration) }

var httpRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP handler latency by route pattern, method and status code.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"route", "method", "status"},
)

func ObserveHTTPRequest(route, method, status string, seconds float64) {
	httpRequestDuration.WithLabelValues(route, method, status).Observe(seconds)
}
