package collection

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relic-search/internal/domain/entity"
)

// memoryRepo keeps the collection document in memory and counts writes so
// tests can assert that no-op mutations skip the save.
type memoryRepo struct {
	stored *entity.Collection
	saves  int

	getErr  error
	saveErr error
}

func (m *memoryRepo) Get(_ context.Context, _ string) (*entity.Collection, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.stored == nil {
		return entity.NewCollection(time.Unix(0, 0)), nil
	}
	return m.stored, nil
}

func (m *memoryRepo) Save(_ context.Context, _ string, c *entity.Collection) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.stored = c
	m.saves++
	return nil
}

func (m *memoryRepo) Clear(_ context.Context, _ string) error {
	m.stored = nil
	return nil
}

func newTestService(repo *memoryRepo) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func testArtifact(id, title string) entity.Artifact {
	return entity.Artifact{
		ID:        entity.ArtifactID(entity.SourceMet, id),
		SourceID:  id,
		Source:    entity.SourceMet,
		Title:     title,
		Date:      "ca. 950",
		Artist:    "Unknown",
		Medium:    "Steel, \"pattern welded\"",
		Culture:   "Viking",
		SourceURL: "https://www.metmuseum.org/art/collection/search/" + id,
	}
}

func TestSaveAndGet(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestService(repo)
	ctx := context.Background()

	saved, err := svc.Save(ctx, testArtifact("1", "Viking Sword"), "seen in gallery 373", []string{"weapons"})
	require.NoError(t, err)
	assert.True(t, saved)
	assert.Equal(t, 1, repo.saves)

	c, err := svc.Get(ctx)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "seen in gallery 373", c.Items[0].Notes)
	assert.Equal(t, []string{"weapons"}, c.Items[0].Tags)
}

func TestSaveDuplicateIsNoOp(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestService(repo)
	ctx := context.Background()

	a := testArtifact("1", "Viking Sword")
	saved, err := svc.Save(ctx, a, "", nil)
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = svc.Save(ctx, a, "different notes", nil)
	require.NoError(t, err)
	assert.False(t, saved)
	assert.Equal(t, 1, repo.saves)
}

func TestSaveRejectsInvalidArtifact(t *testing.T) {
	svc := newTestService(&memoryRepo{})

	_, err := svc.Save(context.Background(), entity.Artifact{}, "", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrInvalidArtifact)
}

func TestRemove(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestService(repo)
	ctx := context.Background()

	a := testArtifact("1", "Viking Sword")
	_, err := svc.Save(ctx, a, "", nil)
	require.NoError(t, err)

	removed, err := svc.Remove(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.Remove(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 2, repo.saves)
}

func TestUpdateNotes(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestService(repo)
	ctx := context.Background()

	a := testArtifact("1", "Viking Sword")
	_, err := svc.Save(ctx, a, "", nil)
	require.NoError(t, err)

	updated, err := svc.UpdateNotes(ctx, a.ID, "hilt matches Petersen type S")
	require.NoError(t, err)
	assert.True(t, updated)

	c, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hilt matches Petersen type S", c.Items[0].Notes)

	updated, err = svc.UpdateNotes(ctx, "met-unknown", "x")
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestIsSaved(t *testing.T) {
	svc := newTestService(&memoryRepo{})
	ctx := context.Background()

	a := testArtifact("1", "Viking Sword")
	_, err := svc.Save(ctx, a, "", nil)
	require.NoError(t, err)

	got, err := svc.IsSaved(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = svc.IsSaved(ctx, "met-2")
	require.NoError(t, err)
	assert.False(t, got)
}

func TestClear(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Save(ctx, testArtifact("1", "Viking Sword"), "", nil)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx))

	c, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestExportCSV(t *testing.T) {
	svc := newTestService(&memoryRepo{})
	ctx := context.Background()

	_, err := svc.Save(ctx, testArtifact("1", "Viking Sword"), "", nil)
	require.NoError(t, err)

	out, err := svc.ExportCSV(ctx)
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	// header is unquoted, only data rows are quoted
	assert.Equal(t, "title,date,artist,medium,culture,source,sourceUrl", lines[0])
	// embedded quotes are doubled
	assert.Contains(t, lines[1], `"Steel, ""pattern welded"""`)
	assert.Contains(t, lines[1], `"Viking Sword"`)
	assert.Contains(t, lines[1], `"met"`)
}

func TestExportCSVEmptyCollection(t *testing.T) {
	svc := newTestService(&memoryRepo{})

	out, err := svc.ExportCSV(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestExportJSON(t *testing.T) {
	svc := newTestService(&memoryRepo{})
	ctx := context.Background()

	a := testArtifact("1", "Viking Sword")
	_, err := svc.Save(ctx, a, "notes here", []string{"weapons"})
	require.NoError(t, err)

	data, err := svc.ExportJSON(ctx)
	require.NoError(t, err)

	var items []entity.SavedArtifact
	require.NoError(t, json.Unmarshal(data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, a.ID, items[0].Artifact.ID)
	assert.Equal(t, "notes here", items[0].Notes)
}

func TestRepositoryErrorsAreWrapped(t *testing.T) {
	repoErr := errors.New("connection refused")
	svc := newTestService(&memoryRepo{getErr: repoErr})
	ctx := context.Background()

	_, err := svc.Get(ctx)
	assert.ErrorIs(t, err, repoErr)

	_, err = svc.Save(ctx, testArtifact("1", "Viking Sword"), "", nil)
	assert.ErrorIs(t, err, repoErr)

	_, err = svc.ExportCSV(ctx)
	assert.ErrorIs(t, err, repoErr)
}
