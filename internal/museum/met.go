package museum

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"relic-search/internal/domain/entity"
)

// DefaultMetBaseURL is the Metropolitan Museum open access API root.
const DefaultMetBaseURL = "https://collectionapi.metmuseum.org/public/collection/v1/"

// metObjectFetchConcurrency bounds the parallel object lookups that follow a
// search, since the Met search endpoint returns only ids.
const metObjectFetchConcurrency = 5

// Met searches the Metropolitan Museum of Art collection.
//
// The Met API is two-phase: a search request returns the full list of
// matching object ids, and each object must then be fetched individually.
// The adapter slices the id list to the requested page window and fetches
// those objects concurrently; ids whose object fetch fails are dropped from
// the page rather than failing the whole source.
type Met struct {
	client  *Client
	baseURL string
}

// NewMet creates the Met adapter. An empty baseURL uses the public API.
func NewMet(client *Client, baseURL string) *Met {
	if baseURL == "" {
		baseURL = DefaultMetBaseURL
	}
	return &Met{client: client, baseURL: baseURL}
}

// Source implements Adapter.
func (m *Met) Source() entity.Source { return entity.SourceMet }

type metSearchResponse struct {
	Total     int   `json:"total"`
	ObjectIDs []int `json:"objectIDs"`
}

type metObject struct {
	ObjectID          int      `json:"objectID"`
	Title             string   `json:"title"`
	ObjectDate        string   `json:"objectDate"`
	ObjectBeginDate   int      `json:"objectBeginDate"`
	ObjectEndDate     int      `json:"objectEndDate"`
	Period            string   `json:"period"`
	Culture           string   `json:"culture"`
	Classification    string   `json:"classification"`
	ObjectName        string   `json:"objectName"`
	Medium            string   `json:"medium"`
	Dimensions        string   `json:"dimensions"`
	ArtistDisplayName string   `json:"artistDisplayName"`
	ArtistDisplayBio  string   `json:"artistDisplayBio"`
	PrimaryImage      string   `json:"primaryImage"`
	PrimaryImageSmall string   `json:"primaryImageSmall"`
	AdditionalImages  []string `json:"additionalImages"`
	Department        string   `json:"department"`
	GalleryNumber     string   `json:"GalleryNumber"`
	Country           string   `json:"country"`
	Region            string   `json:"region"`
	CreditLine        string   `json:"creditLine"`
	LinkResource      string   `json:"linkResource"`
	IsPublicDomain    bool     `json:"isPublicDomain"`
}

// Search implements Adapter.
func (m *Met) Search(ctx context.Context, filters entity.SearchFilters) (*entity.SourceResult, error) {
	params := url.Values{}
	params.Set("q", filters.Query)
	if filters.HasImage {
		params.Set("hasImages", "true")
	}
	if filters.Category != "" {
		if native, ok := nativeCategory(filters.Category, entity.SourceMet); ok {
			if deptID, ok := metDepartments[native]; ok {
				params.Set("departmentId", strconv.Itoa(deptID))
			}
		}
	}
	if filters.DateFrom != nil {
		params.Set("dateBegin", strconv.Itoa(*filters.DateFrom))
	}
	if filters.DateTo != nil {
		params.Set("dateEnd", strconv.Itoa(*filters.DateTo))
	}

	var searchResp metSearchResponse
	if err := m.client.GetJSON(ctx, m.baseURL+"search?"+params.Encode(), &searchResp); err != nil {
		return nil, fmt.Errorf("Met.Search: %w", err)
	}

	start := (filters.Page - 1) * filters.PageSize
	pageIDs := pageSlice(searchResp.ObjectIDs, start, filters.PageSize)
	if len(pageIDs) == 0 {
		return &entity.SourceResult{
			Source: entity.SourceMet,
			Total:  len(searchResp.ObjectIDs),
		}, nil
	}

	objects := make([]*metObject, len(pageIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(metObjectFetchConcurrency)
	for i, id := range pageIDs {
		g.Go(func() error {
			var obj metObject
			if err := m.client.GetJSON(gctx, fmt.Sprintf("%sobjects/%d", m.baseURL, id), &obj); err != nil {
				// a single missing object does not sink the page
				return nil
			}
			objects[i] = &obj
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("Met.Search: %w", err)
	}

	artifacts := make([]entity.Artifact, 0, len(objects))
	for _, obj := range objects {
		if obj == nil || obj.ObjectID == 0 {
			continue
		}
		artifacts = append(artifacts, normalizeMetObject(obj))
	}

	return &entity.SourceResult{
		Source:    entity.SourceMet,
		Artifacts: artifacts,
		Total:     len(searchResp.ObjectIDs),
	}, nil
}

func normalizeMetObject(raw *metObject) entity.Artifact {
	sourceID := strconv.Itoa(raw.ObjectID)
	sourceURL := raw.LinkResource
	if sourceURL == "" {
		sourceURL = "https://www.metmuseum.org/art/collection/search/" + sourceID
	}

	var earliest, latest *int
	if raw.ObjectBeginDate != 0 {
		earliest = entity.Year(raw.ObjectBeginDate)
	}
	if raw.ObjectEndDate != 0 {
		latest = entity.Year(raw.ObjectEndDate)
	}

	return entity.Artifact{
		ID:                entity.ArtifactID(entity.SourceMet, sourceID),
		SourceID:          sourceID,
		Source:            entity.SourceMet,
		Title:             orUntitled(raw.Title),
		Date:              raw.ObjectDate,
		DateEarliest:      earliest,
		DateLatest:        latest,
		Period:            raw.Period,
		Culture:           raw.Culture,
		Classification:    raw.Classification,
		ObjectType:        raw.ObjectName,
		Medium:            raw.Medium,
		Dimensions:        raw.Dimensions,
		Artist:            raw.ArtistDisplayName,
		ArtistBio:         raw.ArtistDisplayBio,
		PrimaryImage:      raw.PrimaryImage,
		PrimaryImageSmall: raw.PrimaryImageSmall,
		AdditionalImages:  raw.AdditionalImages,
		Department:        raw.Department,
		Gallery:           raw.GalleryNumber,
		Country:           raw.Country,
		Region:            raw.Region,
		CreditLine:        raw.CreditLine,
		SourceURL:         sourceURL,
		IsPublicDomain:    raw.IsPublicDomain,
	}
}

func orUntitled(title string) string {
	if title == "" {
		return "Untitled"
	}
	return title
}

func pageSlice[T any](items []T, start, size int) []T {
	if start >= len(items) || start < 0 {
		return nil
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
