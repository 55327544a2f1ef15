package analyzer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pagesAnalyzed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cro_auditor_pages_analyzed_total",
			Help: "Pages fetched, extracted and sent to the model",
		},
		[]string{"audit_type"},
	)

	pagesFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cro_auditor_pages_failed_total",
			Help: "Pages that could not be fetched",
		},
	)

	modelErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cro_auditor_model_errors_total",
			Help: "Language model calls that returned an error",
		},
	)

	modelDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cro_auditor_model_call_duration_seconds",
			Help:    "Latency of language model calls",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 9),
		},
	)

	pagesDiscovered = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cro_auditor_crawl_pages_discovered",
			Help:    "Pages discovered per website crawl",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		},
	)
)
