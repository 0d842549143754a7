package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(jobRunsTotal, hookRateLimitedTotal) }

var (
	jobRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_job_runs_total",
			Help: "Background job runs, labeled by job and status.",
		},
		[]string{"job", "status"}, // ok|fail
	)

	hookRateLimitedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hook_rate_limited_total",
			Help: "Webhook calls rejected by the rate limiter.",
		},
		[]string{"hook"},
	)
)

func IncJobRun(job string, err error) {
	status := "ok"
	if err != nil {
		status = "fail"
	}
	jobRunsTotal.WithLabelValues(norm(job), status).Inc()
}

func IncHookRateLimited(hook string) {
	hookRateLimitedTotal.WithLabelValues(norm(hook)).Inc()
}
