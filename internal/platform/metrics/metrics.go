// Package metrics exposes Prometheus instrumentation for the job pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	JobsSubmitted  = prometheus.NewCounter(prometheus.CounterOpts{Name: "vox_jobs_submitted_total", Help: "Recognition jobs accepted by the gateway"})
	JobsCompleted  = prometheus.NewCounter(prometheus.CounterOpts{Name: "vox_jobs_completed_total", Help: "Recognition jobs that finished successfully"})
	JobsFailed     = prometheus.NewCounter(prometheus.CounterOpts{Name: "vox_jobs_failed_total", Help: "Recognition jobs that ended in the failed state"})
	JobsSwept      = prometheus.NewCounter(prometheus.CounterOpts{Name: "vox_jobs_swept_total", Help: "Terminal job records deleted by the retention sweeper"})
	AuthRejections = prometheus.NewCounter(prometheus.CounterOpts{Name: "vox_auth_rejections_total", Help: "Requests rejected by credential validation"})
	JobsInFlight   = prometheus.NewGauge(prometheus.GaugeOpts{Name: "vox_jobs_inflight", Help: "Jobs currently in the processing state"})
)

// Handler exposes the /metrics HTTP handler with a singleton registry.
func Handler() http.Handler {
	once.Do(func() {
		prometheus.MustRegister(
			JobsSubmitted,
			JobsCompleted,
			JobsFailed,
			JobsSwept,
			AuthRejections,
			JobsInFlight,
		)
	})
	return promhttp.Handler()
}
