package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	solvesTotal   *prometheus.CounterVec
	sweeps        prometheus.Histogram
	solveDuration prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		solvesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "value_iteration_solves_total",
			Help: "Number of solved MDPs by convergence",
		}, []string{"converged"}),
		sweeps: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "value_iteration_sweeps",
			Help:    "Number of sweeps per solve",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		solveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "value_iteration_solve_duration_seconds",
			Help:    "Time spent in the solver",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
