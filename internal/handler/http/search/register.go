package search

import (
	"net/http"

	"relic-search/internal/config"
	searchUC "relic-search/internal/usecase/search"
	semanticUC "relic-search/internal/usecase/semantic"
)

// Register mounts the search endpoint on the mux. Search is public; it
// performs no mutations and exposes no per-user state.
func Register(mux *http.ServeMux, svc *searchUC.Service, semantic *semanticUC.Service, defaults config.SearchConfig) {
	mux.Handle("GET /api/search", Handler{Svc: svc, Semantic: semantic, Defaults: defaults})
}
