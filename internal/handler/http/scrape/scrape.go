// Package scrape exposes the page-extraction endpoint over HTTP.
package scrape

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"relic-search/internal/domain/entity"
	"relic-search/internal/handler/http/respond"
	scrapeUC "relic-search/internal/usecase/scrape"
)

// Request is the payload for POST /api/scrape.
type Request struct {
	URL string `json:"url"`
}

// Response wraps the extracted partial artifact.
type Response struct {
	Artifact *entity.Artifact `json:"artifact"`
}

// Handler serves POST /api/scrape. Extraction reaches out to the museum
// page, so the route sits behind the rate limiter and the request timeout.
type Handler struct{ Svc *scrapeUC.Service }

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest,
			fmt.Errorf("invalid request body: %w", err))
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		respond.SafeError(w, http.StatusBadRequest, errors.New("url is required"))
		return
	}

	artifact, err := h.Svc.Extract(r.Context(), req.URL)
	if err != nil {
		switch {
		case errors.Is(err, scrapeUC.ErrInvalidURL):
			respond.SafeError(w, http.StatusBadRequest, err)
		case errors.Is(err, scrapeUC.ErrDomainNotAllowed):
			// 403, not 400: the URL is well formed, the host is just
			// outside the allow-list.
			respond.SafeErrorV2(w, http.StatusForbidden,
				respond.NewAppError(http.StatusForbidden, "domain not allowed for scraping", err))
		default:
			respond.SafeErrorV2(w, http.StatusBadGateway,
				respond.NewAppError(http.StatusBadGateway, "failed to fetch the page", err))
		}
		return
	}

	respond.JSON(w, http.StatusOK, Response{Artifact: artifact})
}

// Register mounts the scrape endpoint on the mux.
func Register(mux *http.ServeMux, svc *scrapeUC.Service) {
	mux.Handle("POST /api/scrape", Handler{svc})
}
