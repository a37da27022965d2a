// Package entity defines the core domain entities and validation logic for the application.
// It contains the normalized Artifact record shared by every museum adapter, the
// search filter and result shapes, and the bookmarked-collection types.
package entity

import "fmt"

// Source identifies one museum collection API.
type Source string

const (
	SourceMet         Source = "met"
	SourceVA          Source = "va"
	SourceCleveland   Source = "cleveland"
	SourceSmithsonian Source = "smithsonian"
	SourceHarvard     Source = "harvard"
	SourceChicago     Source = "chicago"
	SourceScraped     Source = "scraped"
)

// KnownSources lists every source the system understands, implemented or not.
var KnownSources = []Source{
	SourceMet,
	SourceVA,
	SourceCleveland,
	SourceSmithsonian,
	SourceHarvard,
	SourceChicago,
	SourceScraped,
}

// Valid reports whether s is one of the known museum sources.
func (s Source) Valid() bool {
	for _, known := range KnownSources {
		if s == known {
			return true
		}
	}
	return false
}

// Label returns a human-readable museum name for the source tag.
func (s Source) Label() string {
	switch s {
	case SourceMet:
		return "Metropolitan Museum"
	case SourceVA:
		return "Victoria & Albert"
	case SourceCleveland:
		return "Cleveland Museum"
	case SourceSmithsonian:
		return "Smithsonian Institution"
	case SourceHarvard:
		return "Harvard Art Museums"
	case SourceChicago:
		return "Art Institute of Chicago"
	case SourceScraped:
		return "Web Scrape"
	default:
		return string(s)
	}
}

// Artifact is one normalized museum object record.
//
// The ID is derived deterministically from Source and SourceID and is stable
// across repeated fetches of the same underlying object; it is the join key
// used to deduplicate across ranking passes. Optional text fields use the
// empty string for "unknown"; the date bounds use nil pointers because a
// missing bound carries meaning for time filtering (unknown dates must not
// be penalized as "doesn't match").
type Artifact struct {
	ID       string `json:"id"`
	SourceID string `json:"sourceId"`
	Source   Source `json:"source"`

	Title          string `json:"title"`
	Date           string `json:"date"`
	DateEarliest   *int   `json:"dateEarliest"`
	DateLatest     *int   `json:"dateLatest"`
	Period         string `json:"period,omitempty"`
	Culture        string `json:"culture,omitempty"`
	Classification string `json:"classification,omitempty"`
	ObjectType     string `json:"objectType,omitempty"`
	Medium         string `json:"medium,omitempty"`
	Dimensions     string `json:"dimensions,omitempty"`

	Artist    string `json:"artist,omitempty"`
	ArtistBio string `json:"artistBio,omitempty"`

	Description string `json:"description,omitempty"`

	PrimaryImage      string   `json:"primaryImage,omitempty"`
	PrimaryImageSmall string   `json:"primaryImageSmall,omitempty"`
	AdditionalImages  []string `json:"additionalImages,omitempty"`

	Department string `json:"department,omitempty"`
	Gallery    string `json:"gallery,omitempty"`
	Country    string `json:"country,omitempty"`
	Region     string `json:"region,omitempty"`
	CreditLine string `json:"creditLine,omitempty"`

	SourceURL string `json:"sourceUrl"`

	IsPublicDomain bool `json:"isPublicDomain"`
}

// ArtifactID builds the globally unique artifact identifier for a source object.
func ArtifactID(source Source, sourceID string) string {
	return fmt.Sprintf("%s-%s", source, sourceID)
}

// Validate checks the invariants every normalized artifact must satisfy.
func (a *Artifact) Validate() error {
	if !a.Source.Valid() {
		return fmt.Errorf("%w: unknown source %q", ErrInvalidArtifact, a.Source)
	}
	if a.SourceID == "" {
		return fmt.Errorf("%w: source id is required", ErrInvalidArtifact)
	}
	if a.ID != ArtifactID(a.Source, a.SourceID) {
		return fmt.Errorf("%w: id %q does not match source %q and source id %q",
			ErrInvalidArtifact, a.ID, a.Source, a.SourceID)
	}
	if a.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidArtifact)
	}
	if a.DateEarliest != nil && a.DateLatest != nil && *a.DateEarliest > *a.DateLatest {
		return fmt.Errorf("%w: date bounds inverted (%d > %d)",
			ErrInvalidArtifact, *a.DateEarliest, *a.DateLatest)
	}
	return nil
}

// HasImage reports whether the artifact carries any primary image URL.
func (a *Artifact) HasImage() bool {
	return a.PrimaryImage != ""
}

// Year returns a pointer to y. Convenience for building artifacts with
// literal date bounds.
func Year(y int) *int {
	return &y
}
