package postgres_test

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relic-search/internal/domain/entity"
	pg "relic-search/internal/infra/adapter/persistence/postgres"
	"relic-search/internal/repository"
)

func indexedArtifact() *entity.Artifact {
	return &entity.Artifact{
		ID:           entity.ArtifactID(entity.SourceMet, "24086"),
		SourceID:     "24086",
		Source:       entity.SourceMet,
		Title:        "Viking Sword",
		PrimaryImage: "https://images.metmuseum.org/1.jpg",
		DateEarliest: entity.Year(900),
		DateLatest:   entity.Year(1000),
		SourceURL:    "https://www.metmuseum.org/art/collection/search/24086",
	}
}

func TestArtifactIndexRepo_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	a := indexedArtifact()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO artifact_index")).
		WithArgs(a.ID, string(a.Source), a.Title, a.DateEarliest, a.DateLatest, true,
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := pg.NewArtifactIndexRepo(db)
	err = repo.Upsert(context.Background(), a, []float32{0.1, 0.2, 0.3})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArtifactIndexRepo_Upsert_ValidationError(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := pg.NewArtifactIndexRepo(db)

	err = repo.Upsert(context.Background(), nil, []float32{0.1})
	assert.Error(t, err)

	invalid := indexedArtifact()
	invalid.Title = ""
	err = repo.Upsert(context.Background(), invalid, []float32{0.1})
	assert.ErrorIs(t, err, entity.ErrInvalidArtifact)

	err = repo.Upsert(context.Background(), indexedArtifact(), nil)
	assert.Error(t, err)
}

func TestArtifactIndexRepo_SavePending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	a := indexedArtifact()
	mock.ExpectExec(`(?s)INSERT INTO artifact_index.*VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, NULL`).
		WithArgs(a.ID, string(a.Source), a.Title, a.DateEarliest, a.DateLatest, true,
			sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := pg.NewArtifactIndexRepo(db)
	err = repo.SavePending(context.Background(), a)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArtifactIndexRepo_SavePending_ValidationError(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := pg.NewArtifactIndexRepo(db)

	err = repo.SavePending(context.Background(), nil)
	assert.Error(t, err)

	invalid := indexedArtifact()
	invalid.Title = ""
	err = repo.SavePending(context.Background(), invalid)
	assert.ErrorIs(t, err, entity.ErrInvalidArtifact)
}

func TestArtifactIndexRepo_ListPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	a := indexedArtifact()
	payload, err := json.Marshal(a)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT payload\s+FROM artifact_index\s+WHERE embedding IS NULL`).
		WithArgs(25).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(payload))

	repo := pg.NewArtifactIndexRepo(db)
	pending, err := repo.ListPending(context.Background(), 25)

	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, a.ID, pending[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArtifactIndexRepo_SearchSimilar(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	a := indexedArtifact()
	payload, err := json.Marshal(a)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload, 1 - (embedding <=> $1) AS similarity")).
		WithArgs(sqlmock.AnyArg(), 10).
		WillReturnRows(sqlmock.NewRows([]string{"payload", "similarity"}).
			AddRow(payload, 0.87))

	repo := pg.NewArtifactIndexRepo(db)
	results, err := repo.SearchSimilar(context.Background(), []float32{0.1, 0.2}, repository.VectorSearchOptions{})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, a.ID, results[0].Artifact.ID)
	assert.InDelta(t, 0.87, results[0].Similarity, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArtifactIndexRepo_SearchSimilar_Filters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	src := entity.SourceMet
	from, to := 800, 1100

	// filters become WHERE conditions in declaration order
	mock.ExpectQuery(`source = \$2.*has_image = TRUE.*date_latest IS NULL OR date_latest >= \$3.*date_earliest IS NULL OR date_earliest <= \$4`).
		WithArgs(sqlmock.AnyArg(), "met", from, to, 25).
		WillReturnRows(sqlmock.NewRows([]string{"payload", "similarity"}))

	repo := pg.NewArtifactIndexRepo(db)
	results, err := repo.SearchSimilar(context.Background(), []float32{0.1}, repository.VectorSearchOptions{
		Limit:    25,
		Source:   &src,
		DateFrom: &from,
		DateTo:   &to,
		HasImage: true,
	})

	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArtifactIndexRepo_SearchSimilar_LimitClamped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("FROM artifact_index")).
		WithArgs(sqlmock.AnyArg(), 50).
		WillReturnRows(sqlmock.NewRows([]string{"payload", "similarity"}))

	repo := pg.NewArtifactIndexRepo(db)
	_, err = repo.SearchSimilar(context.Background(), []float32{0.1}, repository.VectorSearchOptions{Limit: 500})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArtifactIndexRepo_SearchSimilar_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("FROM artifact_index")).
		WillReturnError(errors.New("connection refused"))

	repo := pg.NewArtifactIndexRepo(db)
	_, err = repo.SearchSimilar(context.Background(), []float32{0.1}, repository.VectorSearchOptions{})

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArtifactIndexRepo_Count(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM artifact_index")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(42)))

	repo := pg.NewArtifactIndexRepo(db)
	count, err := repo.Count(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
