package metrics

import "time"

// RecordMuseumSearch records the outcome of one source's search.
func RecordMuseumSearch(source string, success bool, duration time.Duration) {
	result := "success"
	if !success {
		result = "failure"
	}
	MuseumSearchesTotal.WithLabelValues(source, result).Inc()
	MuseumSearchDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordArtifactsReturned records how many artifacts one source contributed.
func RecordArtifactsReturned(source string, count int) {
	if count > 0 {
		ArtifactsReturnedTotal.WithLabelValues(source).Add(float64(count))
	}
}

// RecordArtifactIndexed records one similarity index write.
func RecordArtifactIndexed(success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	ArtifactsIndexedTotal.WithLabelValues(status).Inc()
}

// UpdateIndexedArtifacts updates the similarity index size gauge.
// This gauge should be updated periodically to reflect the current state.
func UpdateIndexedArtifacts(count int64) {
	IndexedArtifactsGauge.Set(float64(count))
}

// RecordIndexerJob records one indexing worker run.
// Result should be "success" or "failure".
func RecordIndexerJob(result string, duration time.Duration) {
	IndexerJobsTotal.WithLabelValues(result).Inc()
	IndexerJobDuration.Observe(duration.Seconds())
	if result == "success" {
		IndexerLastSuccess.SetToCurrentTime()
	}
}

// RecordSemanticSearch records a semantic re-rank attempt.
// Result should be "success", "empty", or "failure".
func RecordSemanticSearch(result string) {
	SemanticSearchesTotal.WithLabelValues(result).Inc()
}

// RecordEmbeddingDuration records the time taken to compute an embedding.
func RecordEmbeddingDuration(duration time.Duration) {
	EmbeddingDuration.Observe(duration.Seconds())
}

// RecordScrapeSuccess records a successful scrape extraction.
func RecordScrapeSuccess(duration time.Duration) {
	ScrapeAttemptsTotal.WithLabelValues("success").Inc()
	ScrapeDuration.Observe(duration.Seconds())
}

// RecordScrapeFailed records a failed scrape extraction.
func RecordScrapeFailed(duration time.Duration) {
	ScrapeAttemptsTotal.WithLabelValues("failure").Inc()
	ScrapeDuration.Observe(duration.Seconds())
}

// RecordScrapeRejected records a scrape request refused before fetching,
// for example a URL outside the domain allow-list.
func RecordScrapeRejected() {
	ScrapeAttemptsTotal.WithLabelValues("rejected").Inc()
}

// RecordCollectionOperation records one collection store operation.
func RecordCollectionOperation(operation string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	CollectionOperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query type (e.g., "select_collection", "upsert_artifact").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
