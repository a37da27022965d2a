// Package semantic implements the optional vector re-ranking layer on top
// of keyword search, plus the indexing path that feeds the similarity
// index. Re-ranking is strictly best effort: any failure leaves the keyword
// results untouched.
package semantic

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"relic-search/internal/domain/entity"
	"relic-search/internal/observability/logging"
	"relic-search/internal/observability/metrics"
	"relic-search/internal/repository"
	"relic-search/internal/search/semantic"
)

// rerankLimit caps how many similarity hits are merged into a result page.
const rerankLimit = 30

// Embedder converts text into an embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Service re-ranks keyword results against the similarity index and keeps
// the index populated.
type Service struct {
	Embedder Embedder
	Index    repository.ArtifactIndexRepository
}

// NewService creates a semantic service. Either dependency may be nil, in
// which case Rerank degrades to a pass-through and Index reports an error.
func NewService(embedder Embedder, index repository.ArtifactIndexRepository) *Service {
	return &Service{Embedder: embedder, Index: index}
}

// Enabled reports whether the service has everything it needs to re-rank.
func (s *Service) Enabled() bool {
	return s != nil && s.Embedder != nil && s.Index != nil
}

// Rerank folds similarity hits for the query into the keyword results.
// It never fails the search: embedding errors, index errors, and an empty
// index all return the keyword results unchanged.
func (s *Service) Rerank(ctx context.Context, keyword *entity.AggregatedResults, filters entity.SearchFilters) *entity.AggregatedResults {
	if keyword == nil || !s.Enabled() {
		return keyword
	}
	log := logging.FromContext(ctx)

	start := time.Now()
	embedding, err := s.Embedder.Embed(ctx, filters.Query)
	metrics.RecordEmbeddingDuration(time.Since(start))
	if err != nil {
		metrics.RecordSemanticSearch("failure")
		log.Warn("query embedding failed, keeping keyword order",
			slog.String("query", filters.Query),
			slog.Any("error", err))
		return keyword
	}

	hits, err := s.Index.SearchSimilar(ctx, embedding, searchOptions(filters))
	if err != nil {
		metrics.RecordSemanticSearch("failure")
		log.Warn("similarity search failed, keeping keyword order",
			slog.String("query", filters.Query),
			slog.Any("error", err))
		return keyword
	}
	if len(hits) == 0 {
		metrics.RecordSemanticSearch("empty")
		return keyword
	}

	external := make([]entity.Artifact, len(hits))
	for i, h := range hits {
		external[i] = h.Artifact
	}

	metrics.RecordSemanticSearch("success")
	log.Debug("merged similarity hits into keyword results",
		slog.String("query", filters.Query),
		slog.Int("hits", len(hits)))
	return semantic.Merge(keyword, external)
}

// IndexArtifacts embeds and upserts artifacts into the similarity index.
// Individual failures are logged and counted but do not stop the batch;
// the returned count is how many artifacts were indexed.
func (s *Service) IndexArtifacts(ctx context.Context, artifacts []entity.Artifact) (int, error) {
	if !s.Enabled() {
		return 0, fmt.Errorf("IndexArtifacts: embedder or index not configured")
	}
	log := logging.FromContext(ctx)

	indexed := 0
	for i := range artifacts {
		a := &artifacts[i]
		if err := s.indexOne(ctx, a); err != nil {
			metrics.RecordArtifactIndexed(false)
			log.Warn("failed to index artifact",
				slog.String("artifact_id", a.ID),
				slog.Any("error", err))
			continue
		}
		metrics.RecordArtifactIndexed(true)
		indexed++
	}

	if count, err := s.Index.Count(ctx); err == nil {
		metrics.UpdateIndexedArtifacts(count)
	}
	return indexed, nil
}

// IndexPending embeds the artifacts that were ingested without an
// embedding. Called by the worker on a schedule.
func (s *Service) IndexPending(ctx context.Context, limit int) (int, error) {
	if !s.Enabled() {
		return 0, fmt.Errorf("IndexPending: embedder or index not configured")
	}

	pending, err := s.Index.ListPending(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("IndexPending: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}
	return s.IndexArtifacts(ctx, pending)
}

func (s *Service) indexOne(ctx context.Context, a *entity.Artifact) error {
	start := time.Now()
	embedding, err := s.Embedder.Embed(ctx, embeddingText(a))
	metrics.RecordEmbeddingDuration(time.Since(start))
	if err != nil {
		return fmt.Errorf("embed artifact: %w", err)
	}
	if err := s.Index.Upsert(ctx, a, embedding); err != nil {
		return fmt.Errorf("upsert artifact: %w", err)
	}
	return nil
}

// embeddingText assembles the descriptive fields an artifact is embedded
// under. Field order matters only for reproducibility across re-indexing.
func embeddingText(a *entity.Artifact) string {
	parts := make([]string, 0, 6)
	for _, p := range []string{a.Title, a.Artist, a.Culture, a.Classification, a.Medium, a.Description} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ". ")
}

// searchOptions translates search filters into vector search options.
// Source narrowing applies only when exactly one source is selected; the
// index spans sources and a multi-source query searches all of them.
func searchOptions(filters entity.SearchFilters) repository.VectorSearchOptions {
	opts := repository.VectorSearchOptions{
		Limit:    rerankLimit,
		DateFrom: filters.DateFrom,
		DateTo:   filters.DateTo,
		HasImage: filters.HasImage,
	}
	if len(filters.Sources) == 1 {
		src := filters.Sources[0]
		opts.Source = &src
	}
	return opts
}
