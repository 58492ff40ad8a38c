package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RefreshMetrics records metadata for background refresh jobs.
type RefreshMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewRefreshMetrics registers the refresh job metrics on the provided registerer.
func NewRefreshMetrics(reg prometheus.Registerer) *RefreshMetrics {
	if reg == nil {
		return &RefreshMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "refresh_duration_seconds",
		Help:    "Duration of background refresh jobs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "refresh_success",
		Help: "Successful refresh job executions.",
	}, []string{"job"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "refresh_failure",
		Help: "Failed refresh job executions.",
	}, []string{"job"})
	reg.MustRegister(duration, success, failure)
	return &RefreshMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration for the named job.
func (r *RefreshMetrics) ObserveDuration(job string, duration time.Duration) {
	if r == nil || r.duration == nil {
		return
	}
	r.duration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named job.
func (r *RefreshMetrics) IncSuccess(job string) {
	if r == nil || r.success == nil {
		return
	}
	r.success.WithLabelValues(normalizeLabel(job)).Inc()
}

// IncFailure increments the failure counter for the named job.
func (r *RefreshMetrics) IncFailure(job string) {
	if r == nil || r.failure == nil {
		return
	}
	r.failure.WithLabelValues(normalizeLabel(job)).Inc()
}

func normalizeLabel(job string) string {
	if job == "" {
		return "unknown"
	}
	return job
}
