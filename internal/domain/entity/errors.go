package entity

import "errors"

var (
	// ErrInvalidArtifact indicates a normalized record violated an artifact invariant.
	ErrInvalidArtifact = errors.New("invalid artifact")

	// ErrInvalidFilters indicates a search request failed validation.
	ErrInvalidFilters = errors.New("invalid search filters")

	// ErrSourceNotImplemented indicates a known source has no working adapter yet.
	ErrSourceNotImplemented = errors.New("source not implemented")

	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSchemaVersionMismatch indicates a persisted collection was written by an
	// incompatible schema version and must be treated as empty.
	ErrSchemaVersionMismatch = errors.New("collection schema version mismatch")
)
