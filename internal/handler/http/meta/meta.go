// Package meta serves the static search vocabulary clients build their
// filter controls from.
package meta

import (
	"net/http"

	"relic-search/internal/domain/entity"
	"relic-search/internal/handler/http/respond"
	"relic-search/internal/museum"
)

// SourceInfo describes one museum source and whether it can be searched.
type SourceInfo struct {
	Value      string `json:"value"`
	Label      string `json:"label"`
	Searchable bool   `json:"searchable"`
}

// Response is the payload for GET /api/meta.
type Response struct {
	Sources     []SourceInfo        `json:"sources"`
	Categories  []museum.Category   `json:"categories"`
	TimePeriods []museum.TimePeriod `json:"timePeriods"`
}

// Handler serves GET /api/meta. The payload only changes across deploys,
// so it is assembled once at registration time.
type Handler struct{ payload Response }

// NewHandler builds the metadata payload from the source registry and the
// static category and time-period tables.
func NewHandler(registry museum.Registry) Handler {
	sources := make([]SourceInfo, 0, len(entity.KnownSources))
	for _, s := range entity.KnownSources {
		searchable := len(registry.Implemented([]entity.Source{s})) > 0
		sources = append(sources, SourceInfo{
			Value:      string(s),
			Label:      s.Label(),
			Searchable: searchable,
		})
	}
	return Handler{payload: Response{
		Sources:     sources,
		Categories:  museum.Categories,
		TimePeriods: museum.TimePeriods,
	}}
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.payload)
}

// Register mounts the metadata endpoint on the mux.
func Register(mux *http.ServeMux, registry museum.Registry) {
	mux.Handle("GET /api/meta", NewHandler(registry))
}
