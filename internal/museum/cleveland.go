package museum

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"relic-search/internal/domain/entity"
)

// DefaultClevelandBaseURL is the Cleveland Museum of Art open access API root.
const DefaultClevelandBaseURL = "https://openaccess-api.clevelandart.org/api/artworks/"

// Cleveland searches the Cleveland Museum of Art collection. The API filters
// on text, images, type and creation dates server-side, so this is the only
// adapter that needs no client-side trimming.
type Cleveland struct {
	client  *Client
	baseURL string
}

// NewCleveland creates the Cleveland adapter. An empty baseURL uses the
// public API.
func NewCleveland(client *Client, baseURL string) *Cleveland {
	if baseURL == "" {
		baseURL = DefaultClevelandBaseURL
	}
	return &Cleveland{client: client, baseURL: baseURL}
}

// Source implements Adapter.
func (c *Cleveland) Source() entity.Source { return entity.SourceCleveland }

type clevelandSearchResponse struct {
	Info struct {
		Total int `json:"total"`
	} `json:"info"`
	Data []clevelandArtwork `json:"data"`
}

type clevelandArtwork struct {
	ID                   int      `json:"id"`
	AccessionNumber      string   `json:"accession_number"`
	Title                string   `json:"title"`
	CreationDate         string   `json:"creation_date"`
	CreationDateEarliest *int     `json:"creation_date_earliest"`
	CreationDateLatest   *int     `json:"creation_date_latest"`
	Culture              []string `json:"culture"`
	Type                 string   `json:"type"`
	Technique            string   `json:"technique"`
	Measurements         string   `json:"measurements"`
	Description          string   `json:"description"`
	Department           string   `json:"department"`
	CreditLine           string   `json:"creditline"`
	URL                  string   `json:"url"`
	ShareLicenseStatus   string   `json:"share_license_status"`
	Creators             []struct {
		Description string `json:"description"`
		Biography   string `json:"biography"`
	} `json:"creators"`
	Images struct {
		Web struct {
			URL string `json:"url"`
		} `json:"web"`
	} `json:"images"`
	AlternateImages []struct {
		Web struct {
			URL string `json:"url"`
		} `json:"web"`
	} `json:"alternate_images"`
}

// Search implements Adapter.
func (c *Cleveland) Search(ctx context.Context, filters entity.SearchFilters) (*entity.SourceResult, error) {
	params := url.Values{}
	params.Set("q", filters.Query)
	params.Set("limit", strconv.Itoa(filters.PageSize))
	params.Set("skip", strconv.Itoa((filters.Page-1)*filters.PageSize))
	if filters.HasImage {
		params.Set("has_image", "1")
	}
	if filters.Category != "" {
		if native, ok := nativeCategory(filters.Category, entity.SourceCleveland); ok {
			params.Set("type", native)
		}
	}
	if filters.DateFrom != nil {
		params.Set("created_after", strconv.Itoa(*filters.DateFrom))
	}
	if filters.DateTo != nil {
		params.Set("created_before", strconv.Itoa(*filters.DateTo))
	}

	var resp clevelandSearchResponse
	if err := c.client.GetJSON(ctx, c.baseURL+"?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("Cleveland.Search: %w", err)
	}

	artifacts := make([]entity.Artifact, 0, len(resp.Data))
	for i := range resp.Data {
		artifacts = append(artifacts, normalizeClevelandArtwork(&resp.Data[i]))
	}

	return &entity.SourceResult{
		Source:    entity.SourceCleveland,
		Artifacts: artifacts,
		Total:     resp.Info.Total,
	}, nil
}

func normalizeClevelandArtwork(raw *clevelandArtwork) entity.Artifact {
	sourceID := strconv.Itoa(raw.ID)
	sourceURL := raw.URL
	if sourceURL == "" {
		sourceURL = "https://www.clevelandart.org/art/" + raw.AccessionNumber
	}

	var artist, artistBio string
	if len(raw.Creators) > 0 {
		artist = raw.Creators[0].Description
		artistBio = raw.Creators[0].Biography
	}

	var additional []string
	for _, img := range raw.AlternateImages {
		if img.Web.URL != "" {
			additional = append(additional, img.Web.URL)
		}
	}

	return entity.Artifact{
		ID:                entity.ArtifactID(entity.SourceCleveland, sourceID),
		SourceID:          sourceID,
		Source:            entity.SourceCleveland,
		Title:             orUntitled(raw.Title),
		Date:              raw.CreationDate,
		DateEarliest:      raw.CreationDateEarliest,
		DateLatest:        raw.CreationDateLatest,
		Culture:           strings.Join(raw.Culture, ", "),
		Classification:    raw.Type,
		ObjectType:        raw.Type,
		Medium:            raw.Technique,
		Dimensions:        raw.Measurements,
		Artist:            artist,
		ArtistBio:         artistBio,
		Description:       raw.Description,
		PrimaryImage:      raw.Images.Web.URL,
		PrimaryImageSmall: raw.Images.Web.URL,
		AdditionalImages:  additional,
		Department:        raw.Department,
		CreditLine:        raw.CreditLine,
		SourceURL:         sourceURL,
		IsPublicDomain:    raw.ShareLicenseStatus == "CC0",
	}
}
