package repository

import (
	"context"

	"relic-search/internal/domain/entity"
)

// VectorSearchOptions narrows a similarity search.
type VectorSearchOptions struct {
	// Limit caps the result count. Values are clamped to [1, 50].
	Limit int

	// Source restricts results to a single museum when set.
	Source *entity.Source

	// DateFrom and DateTo bound the artifact production date in years.
	DateFrom *int
	DateTo   *int

	// HasImage keeps only artifacts with a primary image.
	HasImage bool
}

// SimilarArtifact is one similarity search hit.
type SimilarArtifact struct {
	Artifact   entity.Artifact
	Similarity float64
}

// ArtifactIndexRepository defines the interface for the cross-source
// artifact similarity index. Artifacts are stored together with their
// embedding vector and searched by cosine similarity.
type ArtifactIndexRepository interface {
	// Upsert stores an artifact and its embedding, replacing any previous
	// record with the same artifact id.
	Upsert(ctx context.Context, artifact *entity.Artifact, embedding []float32) error

	// SavePending stores an artifact without an embedding. Re-saving an
	// already indexed artifact clears its embedding so the indexer
	// re-embeds the updated metadata.
	SavePending(ctx context.Context, artifact *entity.Artifact) error

	// ListPending returns up to limit artifacts that still lack an
	// embedding, oldest first.
	ListPending(ctx context.Context, limit int) ([]entity.Artifact, error)

	// SearchSimilar returns the artifacts nearest to the query vector,
	// ordered by descending similarity. An unpopulated index returns an
	// empty slice, not an error.
	SearchSimilar(ctx context.Context, embedding []float32, opts VectorSearchOptions) ([]SimilarArtifact, error)

	// Count reports how many embedded artifacts the index holds.
	Count(ctx context.Context) (int64, error)
}
