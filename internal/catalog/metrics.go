package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_fetch_attempts_total",
			Help: "Catalog fetch attempts by strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)

	loadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_loads_total",
			Help: "Completed catalog loads by source",
		},
		[]string{"source"},
	)

	loadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_load_duration_seconds",
			Help:    "Wall time of a catalog load including retries",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"source"},
	)

	committedGeneration = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_committed_generation",
		Help: "Generation of the catalog result currently served",
	})
)
