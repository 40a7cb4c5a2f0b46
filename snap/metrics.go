package snap

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the pipeline. In-memory
// only; exposed via the serve handler when one is running.
type Metrics struct {
	Registry           *prometheus.Registry
	AttemptsTotal      *prometheus.CounterVec
	ErrorsTotal        *prometheus.CounterVec
	RunDuration        prometheus.Histogram
	SnapshotsPublished prometheus.Counter
}

// NewMetrics constructs and registers all collectors on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	attempts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ttsnap_fetch_attempts_total",
			Help: "Render attempts by outcome.",
		},
		[]string{"outcome"},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ttsnap_errors_total",
			Help: "Pipeline errors by kind.",
		},
		[]string{"kind"},
	)
	runDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ttsnap_run_duration_seconds",
			Help:    "Wall-clock duration of a full pipeline run.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
	published := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ttsnap_snapshots_published_total",
			Help: "Snapshots successfully written.",
		},
	)

	registry.MustRegister(attempts, errorsTotal, runDuration, published)

	return &Metrics{
		Registry:           registry,
		AttemptsTotal:      attempts,
		ErrorsTotal:        errorsTotal,
		RunDuration:        runDuration,
		SnapshotsPublished: published,
	}
}

func (m *Metrics) observeAttempt(err error) {
	if m == nil {
		return
	}
	if err == nil {
		m.AttemptsTotal.WithLabelValues("success").Inc()
		return
	}
	m.AttemptsTotal.WithLabelValues("failure").Inc()
	m.ErrorsTotal.WithLabelValues(errorKindLabel(err)).Inc()
}

func (m *Metrics) observeRun(start time.Time, err error) {
	if m == nil {
		return
	}
	m.RunDuration.Observe(time.Since(start).Seconds())
	if err == nil {
		m.SnapshotsPublished.Inc()
	} else {
		m.ErrorsTotal.WithLabelValues(errorKindLabel(err)).Inc()
	}
}

func errorKindLabel(err error) string {
	var timeout *RenderTimeoutError
	if errors.As(err, &timeout) {
		return "render_timeout"
	}
	var mismatch *StructureMismatchError
	if errors.As(err, &mismatch) {
		return "structure_mismatch"
	}
	if errors.Is(err, ErrNoSVG) {
		return "no_svg"
	}
	var pub *PublishError
	if errors.As(err, &pub) {
		return "io"
	}
	return "other"
}
