// Package metrics instruments repository operations with Prometheus.
package metrics

import (
	"net/http"
	"time"

	"movie-catalog/internal/apperror"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Recorder struct {
	registry *prometheus.Registry
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
}

// NewRecorder builds a recorder on its own registry, which also carries the
// Go runtime and process collectors.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Recorder{
		registry: reg,
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "movie_catalog",
			Subsystem: "repository",
			Name:      "duration_seconds",
			Help:      "Latency of movie repository operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "movie_catalog",
			Subsystem: "repository",
			Name:      "errors_total",
			Help:      "Failed movie repository operations by error kind.",
		}, []string{"operation", "kind"}),
	}
	reg.MustRegister(r.duration, r.errors)
	return r
}

// Observe records one operation. A nil Recorder is a no-op.
func (r *Recorder) Observe(operation string, started time.Time, err error) {
	if r == nil {
		return
	}
	r.duration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
	if err != nil {
		r.errors.WithLabelValues(operation, apperror.KindOf(err).String()).Inc()
	}
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
