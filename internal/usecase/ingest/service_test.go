package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relic-search/internal/domain/entity"
	"relic-search/internal/repository"
)

type stubIndex struct {
	saveErr error
	saved   []string
}

func (s *stubIndex) Upsert(_ context.Context, _ *entity.Artifact, _ []float32) error {
	return errors.New("not used")
}

func (s *stubIndex) SavePending(_ context.Context, a *entity.Artifact) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, a.ID)
	return nil
}

func (s *stubIndex) ListPending(_ context.Context, _ int) ([]entity.Artifact, error) {
	return nil, nil
}

func (s *stubIndex) SearchSimilar(_ context.Context, _ []float32, _ repository.VectorSearchOptions) ([]repository.SimilarArtifact, error) {
	return nil, nil
}

func (s *stubIndex) Count(_ context.Context) (int64, error) {
	return int64(len(s.saved)), nil
}

func validArtifact() *entity.Artifact {
	return &entity.Artifact{
		ID:        entity.ArtifactID(entity.SourceMet, "1"),
		SourceID:  "1",
		Source:    entity.SourceMet,
		Title:     "Viking Sword",
		SourceURL: "https://www.metmuseum.org/art/collection/search/1",
	}
}

func TestSubmitQueuesArtifact(t *testing.T) {
	index := &stubIndex{}
	svc := NewService(index)

	err := svc.Submit(context.Background(), validArtifact())

	require.NoError(t, err)
	assert.Equal(t, []string{"met-1"}, index.saved)
}

func TestSubmitRejectsNilArtifact(t *testing.T) {
	svc := NewService(&stubIndex{})

	err := svc.Submit(context.Background(), nil)

	assert.ErrorIs(t, err, entity.ErrInvalidArtifact)
}

func TestSubmitRejectsInvalidArtifact(t *testing.T) {
	svc := NewService(&stubIndex{})

	a := validArtifact()
	a.Title = ""
	err := svc.Submit(context.Background(), a)

	assert.ErrorIs(t, err, entity.ErrInvalidArtifact)
}

func TestSubmitWrapsRepositoryError(t *testing.T) {
	repoErr := errors.New("disk full")
	svc := NewService(&stubIndex{saveErr: repoErr})

	err := svc.Submit(context.Background(), validArtifact())

	assert.ErrorIs(t, err, repoErr)
}
