package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validArtifact() Artifact {
	return Artifact{
		ID:       ArtifactID(SourceMet, "12345"),
		SourceID: "12345",
		Source:   SourceMet,
		Title:    "Viking Sword",
	}
}

func TestArtifactID(t *testing.T) {
	assert.Equal(t, "met-12345", ArtifactID(SourceMet, "12345"))
	assert.Equal(t, "cleveland-1953.424", ArtifactID(SourceCleveland, "1953.424"))
}

func TestArtifactValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Artifact)
		wantErr bool
	}{
		{name: "valid", mutate: func(a *Artifact) {}, wantErr: false},
		{name: "unknown source", mutate: func(a *Artifact) { a.Source = "louvre" }, wantErr: true},
		{name: "missing source id", mutate: func(a *Artifact) { a.SourceID = "" }, wantErr: true},
		{name: "id mismatch", mutate: func(a *Artifact) { a.ID = "met-999" }, wantErr: true},
		{name: "missing title", mutate: func(a *Artifact) { a.Title = "" }, wantErr: true},
		{name: "inverted date bounds", mutate: func(a *Artifact) {
			a.DateEarliest = Year(1200)
			a.DateLatest = Year(900)
		}, wantErr: true},
		{name: "open-ended dates", mutate: func(a *Artifact) {
			a.DateEarliest = Year(900)
			a.DateLatest = nil
		}, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validArtifact()
			tt.mutate(&a)
			err := a.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArtifact)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSearchFiltersNormalize(t *testing.T) {
	f := SearchFilters{Query: "  sword  ", Page: 0, PageSize: 0}
	f.Normalize()
	assert.Equal(t, "sword", f.Query)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, DefaultPageSize, f.PageSize)

	f = SearchFilters{Query: "sword", Page: 3, PageSize: 500}
	f.Normalize()
	assert.Equal(t, 3, f.Page)
	assert.Equal(t, MaxPageSize, f.PageSize)
}

func TestSearchFiltersValidate(t *testing.T) {
	tests := []struct {
		name    string
		filters SearchFilters
		wantErr bool
	}{
		{
			name:    "valid",
			filters: SearchFilters{Query: "sword", Sources: []Source{SourceMet}},
		},
		{
			name:    "empty query",
			filters: SearchFilters{Query: "   ", Sources: []Source{SourceMet}},
			wantErr: true,
		},
		{
			name:    "no sources",
			filters: SearchFilters{Query: "sword"},
			wantErr: true,
		},
		{
			name:    "unknown source",
			filters: SearchFilters{Query: "sword", Sources: []Source{"louvre"}},
			wantErr: true,
		},
		{
			name: "inverted time bounds",
			filters: SearchFilters{
				Query: "sword", Sources: []Source{SourceMet},
				DateFrom: Year(1500), DateTo: Year(1000),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filters.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFilters)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMatchesTimePeriod(t *testing.T) {
	bounded := func(from, to int) *Artifact {
		a := validArtifact()
		a.DateEarliest = Year(from)
		a.DateLatest = Year(to)
		return &a
	}
	unknown := func() *Artifact {
		a := validArtifact()
		return &a
	}

	tests := []struct {
		name     string
		filters  SearchFilters
		artifact *Artifact
		want     bool
	}{
		{name: "no bounds passes everything", filters: SearchFilters{}, artifact: bounded(700, 900), want: true},
		{name: "overlapping range", filters: SearchFilters{DateFrom: Year(800), DateTo: Year(1100)}, artifact: bounded(700, 900), want: true},
		{name: "fully before", filters: SearchFilters{DateFrom: Year(1000), DateTo: Year(1200)}, artifact: bounded(700, 900), want: false},
		{name: "fully after", filters: SearchFilters{DateFrom: Year(100), DateTo: Year(500)}, artifact: bounded(700, 900), want: false},
		{name: "boundary touch is inclusive", filters: SearchFilters{DateFrom: Year(900), DateTo: Year(1200)}, artifact: bounded(700, 900), want: true},
		{name: "unknown dates always pass", filters: SearchFilters{DateFrom: Year(1000), DateTo: Year(1200)}, artifact: unknown(), want: true},
		{name: "open lower bound on artifact", filters: SearchFilters{DateFrom: Year(1000)}, artifact: &Artifact{DateLatest: Year(900)}, want: false},
		{name: "open upper bound on filter", filters: SearchFilters{DateFrom: Year(800)}, artifact: bounded(700, 900), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filters.MatchesTimePeriod(tt.artifact))
		})
	}
}

func TestCollectionAddRemove(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewCollection(now)
	require.Equal(t, SchemaVersion, c.SchemaVersion)

	a := validArtifact()
	require.True(t, c.Add(a, "museum label photo", []string{"weapons"}, now))
	assert.True(t, c.Contains(a.ID))
	assert.Len(t, c.Items, 1)

	// saving the same artifact again is a no-op
	assert.False(t, c.Add(a, "", nil, now.Add(time.Minute)))
	assert.Len(t, c.Items, 1)
	assert.Equal(t, now, c.Items[0].SavedAt)
	assert.Equal(t, "museum label photo", c.Items[0].Notes)

	assert.False(t, c.Remove("met-unknown", now))
	assert.True(t, c.Remove(a.ID, now))
	assert.Empty(t, c.Items)
}

func TestCollectionUpdateNotes(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewCollection(now)
	a := validArtifact()
	require.True(t, c.Add(a, "", nil, now))

	later := now.Add(time.Hour)
	assert.True(t, c.UpdateNotes(a.ID, "matches my kit", later))
	assert.Equal(t, "matches my kit", c.Items[0].Notes)
	assert.Equal(t, later, c.UpdatedAt)

	assert.False(t, c.UpdateNotes("met-unknown", "x", later))
}
