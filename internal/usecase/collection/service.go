// Package collection implements the bookmarked-artifact use cases: saving
// artifacts with notes and tags, removing them, and exporting the whole
// collection as CSV or JSON.
package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"relic-search/internal/domain/entity"
	"relic-search/internal/observability/metrics"
	"relic-search/internal/repository"
)

// Service provides collection management use cases. The collection is read
// and written as one whole document, so every mutation is a load, modify,
// save cycle against the repository.
type Service struct {
	Repo repository.CollectionRepository

	now func() time.Time
}

// NewService creates a collection service backed by the given repository.
func NewService(repo repository.CollectionRepository) *Service {
	return &Service{Repo: repo, now: time.Now}
}

// Get loads the current collection. A missing or unreadable document yields
// an empty collection, never an error from decoding.
func (s *Service) Get(ctx context.Context) (*entity.Collection, error) {
	c, err := s.Repo.Get(ctx, entity.CollectionStorageKey)
	metrics.RecordCollectionOperation("get", err)
	if err != nil {
		return nil, fmt.Errorf("get collection: %w", err)
	}
	return c, nil
}

// Save adds an artifact to the collection with optional notes and tags.
// Saving an artifact that is already present is a no-op and reports false
// without writing.
func (s *Service) Save(ctx context.Context, artifact entity.Artifact, notes string, tags []string) (bool, error) {
	if err := artifact.Validate(); err != nil {
		return false, fmt.Errorf("save artifact: %w", err)
	}

	c, err := s.Repo.Get(ctx, entity.CollectionStorageKey)
	if err != nil {
		metrics.RecordCollectionOperation("save", err)
		return false, fmt.Errorf("get collection: %w", err)
	}

	if !c.Add(artifact, notes, tags, s.now()) {
		metrics.RecordCollectionOperation("save", nil)
		return false, nil
	}

	err = s.Repo.Save(ctx, entity.CollectionStorageKey, c)
	metrics.RecordCollectionOperation("save", err)
	if err != nil {
		return false, fmt.Errorf("save collection: %w", err)
	}
	return true, nil
}

// Remove deletes an artifact from the collection by its composite ID.
// Removing an artifact that is not present reports false without writing.
func (s *Service) Remove(ctx context.Context, artifactID string) (bool, error) {
	c, err := s.Repo.Get(ctx, entity.CollectionStorageKey)
	if err != nil {
		metrics.RecordCollectionOperation("remove", err)
		return false, fmt.Errorf("get collection: %w", err)
	}

	if !c.Remove(artifactID, s.now()) {
		metrics.RecordCollectionOperation("remove", nil)
		return false, nil
	}

	err = s.Repo.Save(ctx, entity.CollectionStorageKey, c)
	metrics.RecordCollectionOperation("remove", err)
	if err != nil {
		return false, fmt.Errorf("save collection: %w", err)
	}
	return true, nil
}

// UpdateNotes replaces the notes on a saved artifact. Updating an artifact
// that is not in the collection reports false without writing.
func (s *Service) UpdateNotes(ctx context.Context, artifactID, notes string) (bool, error) {
	c, err := s.Repo.Get(ctx, entity.CollectionStorageKey)
	if err != nil {
		metrics.RecordCollectionOperation("update_notes", err)
		return false, fmt.Errorf("get collection: %w", err)
	}

	if !c.UpdateNotes(artifactID, notes, s.now()) {
		metrics.RecordCollectionOperation("update_notes", nil)
		return false, nil
	}

	err = s.Repo.Save(ctx, entity.CollectionStorageKey, c)
	metrics.RecordCollectionOperation("update_notes", err)
	if err != nil {
		return false, fmt.Errorf("save collection: %w", err)
	}
	return true, nil
}

// IsSaved reports whether an artifact is in the collection.
func (s *Service) IsSaved(ctx context.Context, artifactID string) (bool, error) {
	c, err := s.Repo.Get(ctx, entity.CollectionStorageKey)
	if err != nil {
		return false, fmt.Errorf("get collection: %w", err)
	}
	return c.Contains(artifactID), nil
}

// Clear removes the whole collection document. Clearing an already empty
// collection is not an error.
func (s *Service) Clear(ctx context.Context) error {
	err := s.Repo.Clear(ctx, entity.CollectionStorageKey)
	metrics.RecordCollectionOperation("clear", err)
	if err != nil {
		return fmt.Errorf("clear collection: %w", err)
	}
	return nil
}

// csvHeader is the fixed column order for CSV export.
var csvHeader = []string{"title", "date", "artist", "medium", "culture", "source", "sourceUrl"}

// ExportCSV renders the collection as CSV with a fixed column set. The
// header row is unquoted; every data field is quoted with embedded quotes
// doubled. An empty collection renders as an empty string rather than a
// lone header row.
func (s *Service) ExportCSV(ctx context.Context) (string, error) {
	c, err := s.Repo.Get(ctx, entity.CollectionStorageKey)
	metrics.RecordCollectionOperation("export_csv", err)
	if err != nil {
		return "", fmt.Errorf("get collection: %w", err)
	}
	if len(c.Items) == 0 {
		return "", nil
	}

	lines := make([]string, 0, len(c.Items)+1)
	lines = append(lines, strings.Join(csvHeader, ","))
	for _, item := range c.Items {
		a := item.Artifact
		lines = append(lines, csvRow([]string{
			a.Title, a.Date, a.Artist, a.Medium, a.Culture, string(a.Source), a.SourceURL,
		}))
	}
	return strings.Join(lines, "\n"), nil
}

// ExportJSON renders the saved items, including notes and tags, as an
// indented JSON array.
func (s *Service) ExportJSON(ctx context.Context) ([]byte, error) {
	c, err := s.Repo.Get(ctx, entity.CollectionStorageKey)
	metrics.RecordCollectionOperation("export_json", err)
	if err != nil {
		return nil, fmt.Errorf("get collection: %w", err)
	}

	data, err := json.MarshalIndent(c.Items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal collection: %w", err)
	}
	return data, nil
}

func csvRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}
