// Package search exposes the aggregated museum search over HTTP.
package search

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"relic-search/internal/config"
	"relic-search/internal/domain/entity"
	"relic-search/internal/handler/http/respond"
	searchUC "relic-search/internal/usecase/search"
	semanticUC "relic-search/internal/usecase/semantic"
)

// Handler serves GET /api/search. Semantic may be nil; re-ranking is then
// skipped entirely.
type Handler struct {
	Svc      *searchUC.Service
	Semantic *semanticUC.Service
	Defaults config.SearchConfig
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := q.Get("q")
	if strings.TrimSpace(query) == "" {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("q query param required"))
		return
	}

	filters := entity.SearchFilters{
		Query:    query,
		Sources:  h.parseSources(q.Get("sources")),
		PageSize: h.Defaults.DefaultPageSize,
	}

	if pageStr := q.Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			respond.SafeError(w, http.StatusBadRequest,
				errors.New("invalid page: must be a positive integer"))
			return
		}
		filters.Page = page
	}

	if sizeStr := q.Get("pageSize"); sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil || size < 1 || size > entity.MaxPageSize {
			respond.SafeError(w, http.StatusBadRequest,
				fmt.Errorf("invalid pageSize: must be between 1 and %d", entity.MaxPageSize))
			return
		}
		filters.PageSize = size
	}

	if hasImageStr := q.Get("hasImage"); hasImageStr != "" {
		hasImage, err := strconv.ParseBool(hasImageStr)
		if err != nil {
			respond.SafeError(w, http.StatusBadRequest,
				errors.New("invalid hasImage: must be a boolean"))
			return
		}
		filters.HasImage = hasImage
	}

	filters.Category = q.Get("category")

	if fromStr := q.Get("dateFrom"); fromStr != "" {
		from, err := strconv.Atoi(fromStr)
		if err != nil {
			respond.SafeError(w, http.StatusBadRequest,
				errors.New("invalid dateFrom: must be a year"))
			return
		}
		filters.DateFrom = &from
	}

	if toStr := q.Get("dateTo"); toStr != "" {
		to, err := strconv.Atoi(toStr)
		if err != nil {
			respond.SafeError(w, http.StatusBadRequest,
				errors.New("invalid dateTo: must be a year"))
			return
		}
		filters.DateTo = &to
	}

	filters.Normalize()

	results, err := h.Svc.Search(r.Context(), filters)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, entity.ErrInvalidFilters) {
			status = http.StatusBadRequest
		}
		respond.SafeError(w, status, err)
		return
	}

	semantic := false
	if h.Semantic.Enabled() && q.Get("semantic") != "false" {
		results = h.Semantic.Rerank(r.Context(), results, filters)
		semantic = true
	}

	respond.JSON(w, http.StatusOK, Response{
		Query:    filters.Query,
		Page:     filters.Page,
		PageSize: filters.PageSize,
		Semantic: semantic,
		Results:  results,
	})
}

// parseSources splits the comma-separated sources parameter, falling back
// to the configured defaults when it is absent. Unknown names pass through
// so filter validation can report them.
func (h Handler) parseSources(raw string) []entity.Source {
	var names []string
	if strings.TrimSpace(raw) == "" {
		names = h.Defaults.DefaultSources
	} else {
		names = strings.Split(raw, ",")
	}

	sources := make([]entity.Source, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		sources = append(sources, entity.Source(name))
	}
	return sources
}
