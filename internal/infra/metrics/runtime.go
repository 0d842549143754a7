package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(buildInfo, contentPool) }

var (
	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "site_build_info",
			Help: "Constant 1, labelled with the running version, commit and Go release.",
		},
		[]string{"version", "commit", "goversion"},
	)

	contentPool = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "content_db_pool_conns",
			Help: "Connections of the content database pool by state.",
		},
		[]string{"state"}, // total|idle|in_use
	)
)

func SetBuildInfo(version, commit string) {
	buildInfo.WithLabelValues(version, commit, runtime.Version()).Set(1)
}

func SetContentPool(total, idle, inUse int32) {
	contentPool.WithLabelValues("total").Set(float64(total))
	contentPool.WithLabelValues("idle").Set(float64(idle))
	contentPool.WithLabelValues("in_use").Set(float64(inUse))
}
