// Package metrics exposes Prometheus instrumentation for the solve
// pipeline. Purely ambient: nothing in the pipeline depends on a
// registry being present.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the pipeline metrics.
type Registry struct {
	// SolvesTotal counts solver invocations by outcome:
	// sat, unsat, error.
	SolvesTotal *prometheus.CounterVec

	// SolveDuration tracks wall time of the decision-procedure call.
	SolveDuration prometheus.Histogram

	// ConstraintsEmitted tracks formula size per translation.
	ConstraintsEmitted prometheus.Histogram

	// TranslationErrors counts failed translations (missing input,
	// unreachable output, malformed t-junction).
	TranslationErrors prometheus.Counter
}

// New creates a Registry registered against reg; a nil reg uses the
// default Prometheus registerer.
func New(reg prometheus.Registerer) *Registry {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &Registry{}

	r.SolvesTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "manifold_solves_total",
			Help: "Total decision-procedure invocations by outcome",
		},
		[]string{"status"},
	)

	r.SolveDuration = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "manifold_solve_duration_seconds",
			Help:    "Decision-procedure call duration in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 30, 120, 600},
		},
	)

	r.ConstraintsEmitted = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "manifold_constraints_emitted",
			Help:    "Constraints emitted per schematic translation",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000},
		},
	)

	r.TranslationErrors = promauto.With(reg).NewCounter(
		prometheus.CounterOpts{
			Name: "manifold_translation_errors_total",
			Help: "Total failed schematic translations",
		},
	)

	return r
}
