package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pgvector/pgvector-go"

	"relic-search/internal/domain/entity"
	"relic-search/internal/observability/metrics"
	"relic-search/internal/repository"
)

// DefaultSearchTimeout bounds similarity search queries.
const DefaultSearchTimeout = 5 * time.Second

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// ArtifactIndexRepo implements the ArtifactIndexRepository interface for
// PostgreSQL with pgvector. The full artifact travels as a JSONB payload;
// source, date bounds, and image presence are denormalized into columns
// for filtering.
type ArtifactIndexRepo struct {
	db *sql.DB
}

// NewArtifactIndexRepo creates a PostgreSQL-based ArtifactIndexRepository.
func NewArtifactIndexRepo(db *sql.DB) repository.ArtifactIndexRepository {
	return &ArtifactIndexRepo{db: db}
}

// Upsert stores an artifact and its embedding, replacing any previous
// record with the same artifact id.
func (repo *ArtifactIndexRepo) Upsert(ctx context.Context, artifact *entity.Artifact, embedding []float32) error {
	if artifact == nil {
		return fmt.Errorf("Upsert: artifact is nil")
	}
	if err := artifact.Validate(); err != nil {
		return fmt.Errorf("Upsert: %w", err)
	}
	if len(embedding) == 0 {
		return fmt.Errorf("Upsert: embedding is empty")
	}

	payload, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("Upsert: marshal: %w", err)
	}
	vector := pgvector.NewVector(embedding)

	const query = `
INSERT INTO artifact_index (id, source, title, date_earliest, date_latest, has_image, payload, embedding, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
ON CONFLICT (id)
DO UPDATE SET
	source = EXCLUDED.source,
	title = EXCLUDED.title,
	date_earliest = EXCLUDED.date_earliest,
	date_latest = EXCLUDED.date_latest,
	has_image = EXCLUDED.has_image,
	payload = EXCLUDED.payload,
	embedding = EXCLUDED.embedding,
	updated_at = NOW()`

	start := time.Now()
	_, err = repo.db.ExecContext(ctx, query,
		artifact.ID,
		string(artifact.Source),
		artifact.Title,
		artifact.DateEarliest,
		artifact.DateLatest,
		artifact.HasImage(),
		payload,
		vector,
	)
	metrics.RecordDBQuery("upsert_artifact", time.Since(start))
	if err != nil {
		return fmt.Errorf("Upsert: %w", err)
	}
	return nil
}

// SavePending stores an artifact without an embedding. A conflicting id
// gets its metadata refreshed and its embedding cleared, which puts it
// back on the indexer's queue.
func (repo *ArtifactIndexRepo) SavePending(ctx context.Context, artifact *entity.Artifact) error {
	if artifact == nil {
		return fmt.Errorf("SavePending: artifact is nil")
	}
	if err := artifact.Validate(); err != nil {
		return fmt.Errorf("SavePending: %w", err)
	}

	payload, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("SavePending: marshal: %w", err)
	}

	const query = `
INSERT INTO artifact_index (id, source, title, date_earliest, date_latest, has_image, payload, embedding, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NULL, NOW(), NOW())
ON CONFLICT (id)
DO UPDATE SET
	source = EXCLUDED.source,
	title = EXCLUDED.title,
	date_earliest = EXCLUDED.date_earliest,
	date_latest = EXCLUDED.date_latest,
	has_image = EXCLUDED.has_image,
	payload = EXCLUDED.payload,
	embedding = NULL,
	updated_at = NOW()`

	start := time.Now()
	_, err = repo.db.ExecContext(ctx, query,
		artifact.ID,
		string(artifact.Source),
		artifact.Title,
		artifact.DateEarliest,
		artifact.DateLatest,
		artifact.HasImage(),
		payload,
	)
	metrics.RecordDBQuery("save_pending_artifact", time.Since(start))
	if err != nil {
		return fmt.Errorf("SavePending: %w", err)
	}
	return nil
}

// ListPending returns up to limit artifacts awaiting an embedding,
// oldest first.
func (repo *ArtifactIndexRepo) ListPending(ctx context.Context, limit int) ([]entity.Artifact, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	const query = `
SELECT payload
FROM artifact_index
WHERE embedding IS NULL
ORDER BY created_at
LIMIT $1`

	start := time.Now()
	rows, err := repo.db.QueryContext(ctx, query, limit)
	metrics.RecordDBQuery("list_pending_artifacts", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("ListPending: %w", err)
	}
	defer func() { _ = rows.Close() }()

	artifacts := make([]entity.Artifact, 0, limit)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("ListPending: Scan: %w", err)
		}

		var a entity.Artifact
		if err := json.Unmarshal(payload, &a); err != nil {
			return nil, fmt.Errorf("ListPending: unmarshal: %w", err)
		}
		artifacts = append(artifacts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListPending: %w", err)
	}
	return artifacts, nil
}

// SearchSimilar returns the artifacts nearest to the query vector using
// cosine distance, ordered by descending similarity. Pending rows with
// no embedding yet are excluded.
func (repo *ArtifactIndexRepo) SearchSimilar(ctx context.Context, embedding []float32, opts repository.VectorSearchOptions) ([]repository.SimilarArtifact, error) {
	searchCtx, cancel := context.WithTimeout(ctx, DefaultSearchTimeout)
	defer cancel()

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	vector := pgvector.NewVector(embedding)
	args := []interface{}{vector}
	conditions := []string{"embedding IS NOT NULL"}

	if opts.Source != nil {
		args = append(args, string(*opts.Source))
		conditions = append(conditions, fmt.Sprintf("source = $%d", len(args)))
	}
	if opts.HasImage {
		conditions = append(conditions, "has_image = TRUE")
	}
	// Unknown date bounds always pass; known ones use interval overlap.
	if opts.DateFrom != nil {
		args = append(args, *opts.DateFrom)
		conditions = append(conditions, fmt.Sprintf("(date_latest IS NULL OR date_latest >= $%d)", len(args)))
	}
	if opts.DateTo != nil {
		args = append(args, *opts.DateTo)
		conditions = append(conditions, fmt.Sprintf("(date_earliest IS NULL OR date_earliest <= $%d)", len(args)))
	}

	query := `
SELECT payload, 1 - (embedding <=> $1) AS similarity
FROM artifact_index`
	query += "\nWHERE " + strings.Join(conditions, " AND ")
	args = append(args, limit)
	query += fmt.Sprintf("\nORDER BY embedding <=> $1\nLIMIT $%d", len(args))

	start := time.Now()
	rows, err := repo.db.QueryContext(searchCtx, query, args...)
	metrics.RecordDBQuery("search_similar", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("SearchSimilar: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := make([]repository.SimilarArtifact, 0, limit)
	for rows.Next() {
		var payload []byte
		var similarity float64
		if err := rows.Scan(&payload, &similarity); err != nil {
			return nil, fmt.Errorf("SearchSimilar: Scan: %w", err)
		}

		var a entity.Artifact
		if err := json.Unmarshal(payload, &a); err != nil {
			return nil, fmt.Errorf("SearchSimilar: unmarshal: %w", err)
		}
		results = append(results, repository.SimilarArtifact{Artifact: a, Similarity: similarity})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("SearchSimilar: %w", err)
	}
	return results, nil
}

// Count reports how many embedded artifacts the index holds.
func (repo *ArtifactIndexRepo) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM artifact_index WHERE embedding IS NOT NULL`

	var count int64
	if err := repo.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}
