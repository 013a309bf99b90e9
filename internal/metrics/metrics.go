// Package metrics registers the Prometheus collectors for the analyzer.
// Collectors live here rather than in the handler package so pipeline
// components can record without importing HTTP code.
package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// M holds all Prometheus collectors for the analyzer backend.
var M = struct {
	AnalysesTotal       *prometheus.CounterVec
	AnalysisDuration    prometheus.Histogram
	CommentsFetched     prometheus.Counter
	CommentPagesFetched prometheus.Counter
	CommentsClassified  prometheus.Counter
	ClassifierFallbacks *prometheus.CounterVec
	RequestDuration     *prometheus.HistogramVec
	RequestsInFlight    prometheus.Gauge
	CacheHits           prometheus.Counter
	CacheMisses         prometheus.Counter
	DBPoolActive        prometheus.GaugeFunc
	DBPoolIdle          prometheus.GaugeFunc
}{}

// Init registers all Prometheus metrics. Call once at startup.
func Init(pool *pgxpool.Pool) {
	M.AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytanalyzer_analyses_total",
			Help: "Analysis requests by outcome (fresh, cached, error).",
		},
		[]string{"outcome"},
	)

	M.AnalysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ytanalyzer_analysis_duration_seconds",
			Help:    "End-to-end duration of non-cached analysis runs.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	M.CommentsFetched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ytanalyzer_comments_fetched_total",
			Help: "Comments fetched from the YouTube Data API.",
		},
	)

	M.CommentPagesFetched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ytanalyzer_comment_pages_fetched_total",
			Help: "Comment pages fetched from the YouTube Data API.",
		},
	)

	M.CommentsClassified = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ytanalyzer_comments_classified_total",
			Help: "Comments submitted to the sentiment classifier.",
		},
	)

	M.ClassifierFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytanalyzer_classifier_fallbacks_total",
			Help: "Classifications that degraded to the neutral fallback, by failure class.",
		},
		[]string{"reason"},
	)

	M.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ytanalyzer_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	M.RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ytanalyzer_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	M.CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ytanalyzer_cache_hits_total",
			Help: "Analysis lookups served from cache or store.",
		},
	)

	M.CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ytanalyzer_cache_misses_total",
			Help: "Analysis lookups that required a full pipeline run.",
		},
	)

	// DB pool gauges — read live stats from pgxpool
	if pool != nil {
		M.DBPoolActive = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "ytanalyzer_db_connection_pool_active",
				Help: "Number of active database connections.",
			},
			func() float64 {
				return float64(pool.Stat().AcquiredConns())
			},
		)

		M.DBPoolIdle = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "ytanalyzer_db_connection_pool_idle",
				Help: "Number of idle database connections.",
			},
			func() float64 {
				return float64(pool.Stat().IdleConns())
			},
		)

		prometheus.MustRegister(M.DBPoolActive)
		prometheus.MustRegister(M.DBPoolIdle)
	}

	prometheus.MustRegister(
		M.AnalysesTotal,
		M.AnalysisDuration,
		M.CommentsFetched,
		M.CommentPagesFetched,
		M.CommentsClassified,
		M.ClassifierFallbacks,
		M.RequestDuration,
		M.RequestsInFlight,
		M.CacheHits,
		M.CacheMisses,
	)
}
