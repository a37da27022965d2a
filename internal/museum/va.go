package museum

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"relic-search/internal/domain/entity"
)

// DefaultVABaseURL is the Victoria and Albert Museum API root.
const DefaultVABaseURL = "https://api.vam.ac.uk/v2/"

// VA searches the Victoria and Albert Museum collection. The search endpoint
// cannot filter on production dates, so time filtering happens client-side;
// search records carry no date bounds, which means they pass the time filter
// as unknown-date objects rather than being dropped.
type VA struct {
	client  *Client
	baseURL string
}

// NewVA creates the V&A adapter. An empty baseURL uses the public API.
func NewVA(client *Client, baseURL string) *VA {
	if baseURL == "" {
		baseURL = DefaultVABaseURL
	}
	return &VA{client: client, baseURL: baseURL}
}

// Source implements Adapter.
func (v *VA) Source() entity.Source { return entity.SourceVA }

type vaSearchResponse struct {
	Info struct {
		RecordCount int `json:"record_count"`
	} `json:"info"`
	Records []vaSearchRecord `json:"records"`
}

type vaSearchRecord struct {
	SystemNumber string `json:"systemNumber"`
	PrimaryTitle string `json:"_primaryTitle"`
	PrimaryDate  string `json:"_primaryDate"`
	PrimaryPlace string `json:"_primaryPlace"`
	ObjectType   string `json:"objectType"`
	PrimaryMaker struct {
		Name string `json:"name"`
	} `json:"_primaryMaker"`
	Images struct {
		PrimaryThumbnail string `json:"_primary_thumbnail"`
		IIIFImageBase    string `json:"_iiif_image_base_url"`
	} `json:"_images"`
	CurrentLocation struct {
		DisplayName string `json:"displayName"`
	} `json:"_currentLocation"`
}

// Search implements Adapter.
func (v *VA) Search(ctx context.Context, filters entity.SearchFilters) (*entity.SourceResult, error) {
	params := url.Values{}
	params.Set("q", filters.Query)
	params.Set("page", strconv.Itoa(filters.Page))
	params.Set("page_size", strconv.Itoa(filters.PageSize))
	params.Set("images_exist", "true")
	if filters.Category != "" {
		if native, ok := nativeCategory(filters.Category, entity.SourceVA); ok {
			params.Set("q_object_type", native)
		}
	}

	var resp vaSearchResponse
	if err := v.client.GetJSON(ctx, v.baseURL+"objects/search?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("VA.Search: %w", err)
	}

	artifacts := make([]entity.Artifact, 0, len(resp.Records))
	for i := range resp.Records {
		artifacts = append(artifacts, normalizeVASearchRecord(&resp.Records[i]))
	}
	artifacts = filterByTime(artifacts, &filters)

	return &entity.SourceResult{
		Source:    entity.SourceVA,
		Artifacts: artifacts,
		Total:     resp.Info.RecordCount,
	}, nil
}

// vaImageURL builds a IIIF delivery URL from the record's image base.
func vaImageURL(iiifBase, dim string) string {
	if iiifBase == "" {
		return ""
	}
	return iiifBase + "/full/" + dim + "/0/default.jpg"
}

func normalizeVASearchRecord(raw *vaSearchRecord) entity.Artifact {
	small := raw.Images.PrimaryThumbnail
	if small == "" {
		small = vaImageURL(raw.Images.IIIFImageBase, "!400,400")
	}

	return entity.Artifact{
		ID:                entity.ArtifactID(entity.SourceVA, raw.SystemNumber),
		SourceID:          raw.SystemNumber,
		Source:            entity.SourceVA,
		Title:             orUntitled(raw.PrimaryTitle),
		Date:              raw.PrimaryDate,
		Classification:    raw.ObjectType,
		ObjectType:        raw.ObjectType,
		Artist:            raw.PrimaryMaker.Name,
		PrimaryImage:      vaImageURL(raw.Images.IIIFImageBase, "!1200,1200"),
		PrimaryImageSmall: small,
		Gallery:           raw.CurrentLocation.DisplayName,
		Country:           raw.PrimaryPlace,
		SourceURL:         "https://collections.vam.ac.uk/item/" + raw.SystemNumber,
		IsPublicDomain:    true,
	}
}
