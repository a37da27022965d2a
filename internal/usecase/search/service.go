// Package search implements the aggregated museum search use case.
package search

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"relic-search/internal/domain/entity"
	"relic-search/internal/museum"
	"relic-search/internal/observability/logging"
	"relic-search/internal/observability/metrics"
	"relic-search/internal/search/rank"
	"relic-search/internal/search/synonym"
)

// Service fans a search out to every selected museum adapter, ranks each
// source's page by keyword relevance, and folds the outcomes into one
// partial-failure-tolerant result.
type Service struct {
	Registry museum.Registry
}

// NewService creates the search service over an adapter registry.
func NewService(registry museum.Registry) *Service {
	return &Service{Registry: registry}
}

// outcome captures one adapter call's settlement. Failures are values here;
// the fan-out goroutines never return an error, so no sibling is canceled by
// another source's failure.
type outcome struct {
	source entity.Source
	result *entity.SourceResult
	err    error
}

// Search runs the aggregated search. Sources without an implemented adapter
// are silently skipped. A source failure becomes an entry in the returned
// error list; only invalid filters fail the call itself.
func (s *Service) Search(ctx context.Context, filters entity.SearchFilters) (*entity.AggregatedResults, error) {
	filters.Normalize()
	if err := filters.Validate(); err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}

	logger := logging.FromContext(ctx)
	adapters := s.Registry.Implemented(filters.Sources)

	// the literal query ranks results; the expanded one goes upstream so
	// museums also match synonym vocabulary
	upstream := filters
	upstream.Query = synonym.ExpandQuery(filters.Query)

	outcomes := make([]outcome, len(adapters))
	g, gctx := errgroup.WithContext(ctx)
	for i, adapter := range adapters {
		g.Go(func() error {
			start := time.Now()
			result, err := adapter.Search(gctx, upstream)
			metrics.RecordMuseumSearch(string(adapter.Source()), err == nil, time.Since(start))
			outcomes[i] = outcome{source: adapter.Source(), result: result, err: err}
			return nil
		})
	}
	// the closures always return nil, so Wait only joins
	_ = g.Wait()

	agg := &entity.AggregatedResults{
		BySource: make(map[entity.Source]entity.SourceResult, len(adapters)),
	}
	for _, o := range outcomes {
		if o.err != nil {
			logger.Warn("museum search failed",
				"source", string(o.source),
				"error", o.err)
			agg.Errors = append(agg.Errors, entity.SourceError{
				Source:  o.source,
				Message: o.err.Error(),
			})
			continue
		}
		rank.Artifacts(o.result.Artifacts, filters.Query)
		metrics.RecordArtifactsReturned(string(o.source), len(o.result.Artifacts))
		agg.BySource[o.source] = *o.result
		agg.Artifacts = append(agg.Artifacts, o.result.Artifacts...)
		agg.Total += o.result.Total
	}

	logger.Info("aggregated search complete",
		"query", filters.Query,
		"sources", len(adapters),
		"artifacts", len(agg.Artifacts),
		"errors", len(agg.Errors))
	return agg, nil
}
