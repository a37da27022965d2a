package collection

import "relic-search/internal/domain/entity"

// SaveRequest is the payload for bookmarking an artifact. Notes and tags
// are optional.
type SaveRequest struct {
	Artifact entity.Artifact `json:"artifact"`
	Notes    string          `json:"notes"`
	Tags     []string        `json:"tags"`
}

// NotesRequest is the payload for replacing a saved artifact's notes.
type NotesRequest struct {
	Notes string `json:"notes"`
}

// MutationResponse reports whether a save, remove, or notes update actually
// changed the collection.
type MutationResponse struct {
	Changed bool `json:"changed"`
}
