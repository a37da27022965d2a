// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// ActiveConnections tracks the number of active HTTP connections
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)
)

// Business metrics track application-specific operations
var (
	// MuseumSearchesTotal counts per-source search outcomes
	MuseumSearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "museum_searches_total",
			Help: "Total number of museum source searches",
		},
		[]string{"source", "result"}, // result: success, failure
	)

	// MuseumSearchDuration measures one source's search round trip
	MuseumSearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "museum_search_duration_seconds",
			Help:    "Time taken to search one museum source",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"source"},
	)

	// ArtifactsReturnedTotal counts artifacts returned per source
	ArtifactsReturnedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artifacts_returned_total",
			Help: "Total number of artifacts returned from sources",
		},
		[]string{"source"},
	)

	// ArtifactsIndexedTotal counts artifacts written to the similarity index
	ArtifactsIndexedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artifacts_indexed_total",
			Help: "Total number of artifacts indexed for similarity search",
		},
		[]string{"status"}, // status: success, failure
	)

	// IndexedArtifactsGauge tracks the similarity index size
	IndexedArtifactsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "indexed_artifacts",
			Help: "Number of artifacts currently in the similarity index",
		},
	)

	// IndexerJobsTotal counts indexing worker runs by outcome
	IndexerJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indexer_jobs_total",
			Help: "Total number of indexing worker runs",
		},
		[]string{"result"}, // result: success, failure
	)

	// IndexerJobDuration measures one worker run end to end
	IndexerJobDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "indexer_job_duration_seconds",
			Help:    "Time taken by one indexing worker run",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
	)

	// IndexerLastSuccess records the unix time of the last successful run
	IndexerLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "indexer_last_success_timestamp_seconds",
			Help: "Unix timestamp of the last successful indexing run",
		},
	)

	// SemanticSearchesTotal counts semantic re-rank attempts by result
	SemanticSearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "semantic_searches_total",
			Help: "Total number of semantic similarity searches",
		},
		[]string{"result"}, // result: success, empty, failure
	)

	// EmbeddingDuration measures time to compute one query embedding
	EmbeddingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "embedding_duration_seconds",
			Help:    "Time taken to compute an embedding",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)

	// ScrapeAttemptsTotal counts scrape extraction attempts by result
	ScrapeAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrape_attempts_total",
			Help: "Total number of scrape extraction attempts",
		},
		[]string{"result"}, // result: success, failure, rejected
	)

	// ScrapeDuration measures time to fetch and extract one page
	ScrapeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scrape_duration_seconds",
			Help:    "Time taken to fetch and extract a scraped page",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
	)

	// CollectionOperationsTotal counts collection store operations by outcome
	CollectionOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collection_operations_total",
			Help: "Total number of collection store operations",
		},
		[]string{"operation", "result"},
	)
)

// Database metrics track database performance
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	// DBConnectionsActive tracks active database connections
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	// DBConnectionsIdle tracks idle database connections
	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
