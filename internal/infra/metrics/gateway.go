package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		processorRequests,
		processorDuration,
	)
}

var (
	// op: pay_link|prices
	// result: ok|fail
	processorRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "processor_requests_total",
			Help: "Calls to the payment processor API by operation and result.",
		},
		[]string{"op", "result"},
	)

	processorDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "processor_request_duration_seconds",
			Help:    "Latency of payment processor API calls in seconds.",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"op", "result"},
	)
)

// ObserveProcessorCall records one processor round trip started at start.
func ObserveProcessorCall(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "fail"
	}
	processorRequests.WithLabelValues(norm(op), result).Inc()
	processorDuration.WithLabelValues(norm(op), result).Observe(time.Since(start).Seconds())
}
