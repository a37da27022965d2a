// Package ingest accepts normalized artifacts for later embedding. The
// API stores them as pending index rows; the worker picks them up on its
// next run.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"relic-search/internal/domain/entity"
	"relic-search/internal/observability/logging"
	"relic-search/internal/repository"
)

// Service queues artifacts for the similarity index.
type Service struct {
	Index repository.ArtifactIndexRepository
}

// NewService creates the ingest service.
func NewService(index repository.ArtifactIndexRepository) *Service {
	return &Service{Index: index}
}

// Submit validates an artifact and stores it as a pending index row.
// Submitting an already indexed artifact refreshes its metadata and
// queues it for re-embedding.
func (s *Service) Submit(ctx context.Context, artifact *entity.Artifact) error {
	if artifact == nil {
		return fmt.Errorf("Submit: %w: artifact is required", entity.ErrInvalidArtifact)
	}
	if err := artifact.Validate(); err != nil {
		return fmt.Errorf("Submit: %w", err)
	}

	if err := s.Index.SavePending(ctx, artifact); err != nil {
		return fmt.Errorf("Submit: %w", err)
	}

	logging.FromContext(ctx).Info("artifact queued for indexing",
		slog.String("artifact_id", artifact.ID),
		slog.String("source", string(artifact.Source)))
	return nil
}
