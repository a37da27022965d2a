package db

import (
	"database/sql"
)

// MigrateUp creates the schema. All statements are idempotent so the
// migration can run on every startup.
func MigrateUp(db *sql.DB) error {
	// Collections are stored as one whole JSONB document per storage key.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS collections (
    storage_key    TEXT PRIMARY KEY,
    schema_version INT NOT NULL,
    payload        JSONB NOT NULL,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`); err != nil {
		return err
	}

	// pgvector extension for the artifact similarity index.
	// Errors are ignored when the extension exists or the role lacks
	// superuser rights; table creation below fails loudly either way.
	_, _ = db.Exec(`CREATE EXTENSION IF NOT EXISTS vector`)

	// Artifact similarity index. Filter columns are denormalized out of
	// the payload so vector search can narrow by source, date, and image
	// without JSONB operators.
	// vector(1536) matches OpenAI text-embedding-3-small. A NULL
	// embedding marks a pending row the indexing worker has not
	// embedded yet; similarity search skips those.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS artifact_index (
    id            TEXT PRIMARY KEY,
    source        VARCHAR(20) NOT NULL,
    title         TEXT NOT NULL,
    date_earliest INT,
    date_latest   INT,
    has_image     BOOLEAN NOT NULL DEFAULT FALSE,
    payload       JSONB NOT NULL,
    embedding     vector(1536),
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`); err != nil {
		return err
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_artifact_index_source ON artifact_index(source)`,
		`CREATE INDEX IF NOT EXISTS idx_artifact_index_has_image ON artifact_index(has_image) WHERE has_image = TRUE`,
		`CREATE INDEX IF NOT EXISTS idx_artifact_index_dates ON artifact_index(date_earliest, date_latest)`,
		`CREATE INDEX IF NOT EXISTS idx_artifact_index_pending ON artifact_index(created_at) WHERE embedding IS NULL`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	// IVFFlat cosine index. Ignored when pgvector is unavailable; the
	// planner falls back to a sequential scan. lists=100 suits <1M rows.
	_, _ = db.Exec(`
CREATE INDEX IF NOT EXISTS idx_artifact_index_embedding
    ON artifact_index USING ivfflat (embedding vector_cosine_ops)
    WITH (lists = 100)`)

	return nil
}

// MigrateDown rolls back the schema in reverse order of creation.
// Use with caution: this deletes all data in the affected tables.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP INDEX IF EXISTS idx_artifact_index_embedding`,
		`DROP INDEX IF EXISTS idx_artifact_index_pending`,
		`DROP INDEX IF EXISTS idx_artifact_index_dates`,
		`DROP INDEX IF EXISTS idx_artifact_index_has_image`,
		`DROP INDEX IF EXISTS idx_artifact_index_source`,
		`DROP TABLE IF EXISTS artifact_index CASCADE`,
		`DROP TABLE IF EXISTS collections CASCADE`,
	}

	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	// The vector extension stays; other schemas may use it.
	return nil
}
