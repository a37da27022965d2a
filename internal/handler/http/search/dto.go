package search

import "relic-search/internal/domain/entity"

// Response is the search endpoint payload. Semantic reports whether vector
// re-ranking was applied to this page.
type Response struct {
	Query    string                    `json:"query"`
	Page     int                       `json:"page"`
	PageSize int                       `json:"pageSize"`
	Semantic bool                      `json:"semantic"`
	Results  *entity.AggregatedResults `json:"results"`
}
