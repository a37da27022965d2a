// Package postgres implements the repository interfaces on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"relic-search/internal/domain/entity"
	"relic-search/internal/observability/metrics"
	"relic-search/internal/repository"
)

// CollectionRepo stores collections as whole JSONB documents keyed by
// storage key, mirroring the single-document contract of the interface.
type CollectionRepo struct {
	db *sql.DB
}

// NewCollectionRepo creates a PostgreSQL-based CollectionRepository.
func NewCollectionRepo(db *sql.DB) repository.CollectionRepository {
	return &CollectionRepo{db: db}
}

// Get loads the collection document under the key. A missing row, a
// corrupt payload, and a schema version other than the current one all
// yield a fresh empty collection.
func (repo *CollectionRepo) Get(ctx context.Context, key string) (*entity.Collection, error) {
	const query = `SELECT schema_version, payload FROM collections WHERE storage_key = $1`

	start := time.Now()
	var version int
	var payload []byte
	err := repo.db.QueryRowContext(ctx, query, key).Scan(&version, &payload)
	metrics.RecordDBQuery("select_collection", time.Since(start))

	if errors.Is(err, sql.ErrNoRows) {
		return entity.NewCollection(time.Now()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}

	if version != entity.SchemaVersion {
		slog.Warn("collection schema version mismatch, starting empty",
			slog.String("storage_key", key),
			slog.Int("stored_version", version),
			slog.Int("current_version", entity.SchemaVersion))
		return entity.NewCollection(time.Now()), nil
	}

	var c entity.Collection
	if err := json.Unmarshal(payload, &c); err != nil {
		slog.Warn("collection payload corrupt, starting empty",
			slog.String("storage_key", key),
			slog.Any("error", err))
		return entity.NewCollection(time.Now()), nil
	}
	return &c, nil
}

// Save replaces the whole collection document under the key.
func (repo *CollectionRepo) Save(ctx context.Context, key string, collection *entity.Collection) error {
	if collection == nil {
		return fmt.Errorf("Save: collection is nil")
	}

	payload, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("Save: marshal: %w", err)
	}

	const query = `
INSERT INTO collections (storage_key, schema_version, payload, created_at, updated_at)
VALUES ($1, $2, $3, NOW(), NOW())
ON CONFLICT (storage_key)
DO UPDATE SET
	schema_version = EXCLUDED.schema_version,
	payload = EXCLUDED.payload,
	updated_at = NOW()`

	start := time.Now()
	_, err = repo.db.ExecContext(ctx, query, key, collection.SchemaVersion, payload)
	metrics.RecordDBQuery("upsert_collection", time.Since(start))
	if err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	return nil
}

// Clear deletes the collection document under the key. Clearing a missing
// document is not an error.
func (repo *CollectionRepo) Clear(ctx context.Context, key string) error {
	const query = `DELETE FROM collections WHERE storage_key = $1`

	start := time.Now()
	_, err := repo.db.ExecContext(ctx, query, key)
	metrics.RecordDBQuery("delete_collection", time.Since(start))
	if err != nil {
		return fmt.Errorf("Clear: %w", err)
	}
	return nil
}
