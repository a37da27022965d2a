package museum

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"

	"relic-search/internal/domain/entity"
)

// DefaultSmithsonianBaseURL is the Smithsonian open access API root.
const DefaultSmithsonianBaseURL = "https://api.si.edu/openaccess/api/v1.0/"

// smithsonianOverfetch multiplies the page size when the image filter is on.
// The API's online_media_type filter does not reliably exclude items without
// images, so the adapter over-fetches and filters client-side.
const smithsonianOverfetch = 5

var yearPattern = regexp.MustCompile(`\d{4}`)

// Smithsonian searches the Smithsonian Institution open access catalog.
type Smithsonian struct {
	client  *Client
	baseURL string
	apiKey  string
}

// NewSmithsonian creates the Smithsonian adapter. The API requires a key
// from api.data.gov; an empty baseURL uses the public API.
func NewSmithsonian(client *Client, baseURL, apiKey string) *Smithsonian {
	if baseURL == "" {
		baseURL = DefaultSmithsonianBaseURL
	}
	return &Smithsonian{client: client, baseURL: baseURL, apiKey: apiKey}
}

// Source implements Adapter.
func (s *Smithsonian) Source() entity.Source { return entity.SourceSmithsonian }

type smithsonianSearchResponse struct {
	Response struct {
		RowCount int               `json:"rowCount"`
		Rows     []smithsonianItem `json:"rows"`
	} `json:"response"`
}

type smithsonianItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	UnitCode string `json:"unitCode"`
	Content  struct {
		DescriptiveNonRepeating struct {
			Title struct {
				Content string `json:"content"`
			} `json:"title"`
			MetadataUsage struct {
				Access string `json:"access"`
			} `json:"metadata_usage"`
			OnlineMedia struct {
				Media []struct {
					Thumbnail string `json:"thumbnail"`
					IDSID     string `json:"idsId"`
					Type      string `json:"type"`
				} `json:"media"`
			} `json:"online_media"`
		} `json:"descriptiveNonRepeating"`
		Freetext struct {
			Date                []smithsonianFreetext `json:"date"`
			ObjectType          []smithsonianFreetext `json:"objectType"`
			PhysicalDescription []smithsonianFreetext `json:"physicalDescription"`
			DataSource          []smithsonianFreetext `json:"dataSource"`
		} `json:"freetext"`
		IndexedStructured struct {
			Date       []string `json:"date"`
			ObjectType []string `json:"object_type"`
			Place      []string `json:"place"`
		} `json:"indexedStructured"`
	} `json:"content"`
}

type smithsonianFreetext struct {
	Content string `json:"content"`
}

// Search implements Adapter.
func (s *Smithsonian) Search(ctx context.Context, filters entity.SearchFilters) (*entity.SourceResult, error) {
	multiplier := 1
	if filters.HasImage {
		multiplier = smithsonianOverfetch
	}
	rows := filters.PageSize * multiplier

	params := url.Values{}
	params.Set("q", filters.Query)
	params.Set("rows", strconv.Itoa(rows))
	params.Set("start", strconv.Itoa((filters.Page-1)*rows))
	params.Set("api_key", s.apiKey)
	if filters.HasImage {
		params.Set("online_media_type", "Images")
	}

	var resp smithsonianSearchResponse
	if err := s.client.GetJSON(ctx, s.baseURL+"search?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("Smithsonian.Search: %w", err)
	}

	artifacts := make([]entity.Artifact, 0, len(resp.Response.Rows))
	for i := range resp.Response.Rows {
		artifacts = append(artifacts, normalizeSmithsonianItem(&resp.Response.Rows[i]))
	}

	if filters.HasImage {
		kept := artifacts[:0]
		for i := range artifacts {
			if artifacts[i].HasImage() {
				kept = append(kept, artifacts[i])
			}
		}
		artifacts = kept
	}
	artifacts = filterByTime(artifacts, &filters)

	if len(artifacts) > filters.PageSize {
		artifacts = artifacts[:filters.PageSize]
	}

	// rowCount is the unfiltered upstream total; after client-side image and
	// date filtering the page may hold fewer items than the total suggests
	return &entity.SourceResult{
		Source:    entity.SourceSmithsonian,
		Artifacts: artifacts,
		Total:     resp.Response.RowCount,
	}, nil
}

func normalizeSmithsonianItem(raw *smithsonianItem) entity.Artifact {
	descriptive := &raw.Content.DescriptiveNonRepeating
	freetext := &raw.Content.Freetext
	indexed := &raw.Content.IndexedStructured

	var primaryImage string
	if len(descriptive.OnlineMedia.Media) > 0 {
		media := descriptive.OnlineMedia.Media[0]
		if media.IDSID != "" {
			primaryImage = "https://ids.si.edu/ids/deliveryService?id=" + media.IDSID
		} else {
			primaryImage = media.Thumbnail
		}
	}

	var dateStr string
	if len(freetext.Date) > 0 {
		dateStr = freetext.Date[0].Content
	} else if len(indexed.Date) > 0 {
		dateStr = indexed.Date[0]
	}
	var earliest, latest *int
	if match := yearPattern.FindString(dateStr); match != "" {
		if year, err := strconv.Atoi(match); err == nil {
			earliest = entity.Year(year)
			latest = entity.Year(year)
		}
	}

	title := descriptive.Title.Content
	if title == "" {
		title = raw.Title
	}

	var classification, objectType string
	if len(indexed.ObjectType) > 0 {
		classification = indexed.ObjectType[0]
		objectType = indexed.ObjectType[0]
	} else if len(freetext.ObjectType) > 0 {
		classification = freetext.ObjectType[0].Content
	}

	var medium string
	if len(freetext.PhysicalDescription) > 0 {
		medium = freetext.PhysicalDescription[0].Content
	}
	var description string
	if len(freetext.DataSource) > 0 {
		description = freetext.DataSource[0].Content
	}
	var place string
	if len(indexed.Place) > 0 {
		place = indexed.Place[0]
	}

	return entity.Artifact{
		ID:                entity.ArtifactID(entity.SourceSmithsonian, raw.ID),
		SourceID:          raw.ID,
		Source:            entity.SourceSmithsonian,
		Title:             orUntitled(title),
		Date:              dateStr,
		DateEarliest:      earliest,
		DateLatest:        latest,
		Culture:           place,
		Classification:    classification,
		ObjectType:        objectType,
		Medium:            medium,
		Description:       description,
		PrimaryImage:      primaryImage,
		PrimaryImageSmall: primaryImage,
		Department:        raw.UnitCode,
		Region:            place,
		CreditLine:        "Smithsonian Institution",
		SourceURL:         "https://collections.si.edu/search/detail/" + raw.ID,
		IsPublicDomain:    descriptive.MetadataUsage.Access == "CC0",
	}
}
