package repository

import (
	"context"

	"relic-search/internal/domain/entity"
)

// CollectionRepository defines the interface for persisting bookmarked
// collections. A collection is stored and replaced as one whole document
// under its storage key; there is no per-item write path, so concurrent
// writers race with last-write-wins.
type CollectionRepository interface {
	// Get loads the collection stored under the key. A missing document,
	// a corrupt payload, or a schema version other than the current one
	// all yield an empty collection rather than an error.
	Get(ctx context.Context, key string) (*entity.Collection, error)

	// Save replaces the whole collection document under the key.
	Save(ctx context.Context, key string, collection *entity.Collection) error

	// Clear deletes the collection document under the key. Clearing a
	// missing document is not an error.
	Clear(ctx context.Context, key string) error
}
