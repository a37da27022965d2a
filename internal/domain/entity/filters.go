package entity

import (
	"fmt"
	"strings"
)

const (
	// DefaultPageSize is the per-source page size applied when the request
	// does not specify one.
	DefaultPageSize = 20

	// MaxPageSize caps the per-source page size.
	MaxPageSize = 100
)

// SearchFilters describes one aggregated search request.
//
// DateFrom and DateTo bound the object's production date range in years
// (negative values are BCE). A nil bound leaves that side open.
type SearchFilters struct {
	Query    string   `json:"query"`
	Sources  []Source `json:"sources"`
	Page     int      `json:"page"`
	PageSize int      `json:"pageSize"`
	HasImage bool     `json:"hasImage"`
	Category string   `json:"category,omitempty"`
	DateFrom *int     `json:"dateFrom,omitempty"`
	DateTo   *int     `json:"dateTo,omitempty"`
}

// Normalize trims the query, fills paging defaults and clamps the page size.
func (f *SearchFilters) Normalize() {
	f.Query = strings.TrimSpace(f.Query)
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
}

// Validate checks the request invariants. Callers should Normalize first.
func (f *SearchFilters) Validate() error {
	if strings.TrimSpace(f.Query) == "" {
		return fmt.Errorf("%w: query must not be empty", ErrInvalidFilters)
	}
	if len(f.Sources) == 0 {
		return fmt.Errorf("%w: at least one source is required", ErrInvalidFilters)
	}
	for _, s := range f.Sources {
		if !s.Valid() {
			return fmt.Errorf("%w: unknown source %q", ErrInvalidFilters, s)
		}
	}
	if f.DateFrom != nil && f.DateTo != nil && *f.DateFrom > *f.DateTo {
		return fmt.Errorf("%w: dateFrom %d is after dateTo %d",
			ErrInvalidFilters, *f.DateFrom, *f.DateTo)
	}
	return nil
}

// HasTimeBounds reports whether the request restricts the production date.
func (f *SearchFilters) HasTimeBounds() bool {
	return f.DateFrom != nil || f.DateTo != nil
}

// MatchesTimePeriod reports whether the artifact's date range overlaps the
// requested period. Without bounds every artifact passes. A missing artifact
// bound is treated as unbounded on that side, so objects with unknown dates
// are never filtered out.
func (f *SearchFilters) MatchesTimePeriod(a *Artifact) bool {
	if !f.HasTimeBounds() {
		return true
	}
	if f.DateFrom != nil && a.DateLatest != nil && *a.DateLatest < *f.DateFrom {
		return false
	}
	if f.DateTo != nil && a.DateEarliest != nil && *a.DateEarliest > *f.DateTo {
		return false
	}
	return true
}
