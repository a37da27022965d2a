// Package ingest exposes the indexing submission endpoint over HTTP.
package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"relic-search/internal/domain/entity"
	"relic-search/internal/handler/http/auth"
	"relic-search/internal/handler/http/respond"
	ingestUC "relic-search/internal/usecase/ingest"
)

// Response acknowledges a queued artifact.
type Response struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

// Handler serves POST /api/ingest. The artifact is queued for embedding;
// the indexing worker picks it up on its next run.
type Handler struct{ Svc *ingestUC.Service }

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var artifact entity.Artifact
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&artifact); err != nil {
		respond.SafeError(w, http.StatusBadRequest,
			fmt.Errorf("invalid request body: %w", err))
		return
	}

	if err := h.Svc.Submit(r.Context(), &artifact); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, entity.ErrInvalidArtifact) {
			status = http.StatusBadRequest
		}
		respond.SafeError(w, status, err)
		return
	}

	respond.JSON(w, http.StatusAccepted, Response{Status: "queued", ID: artifact.ID})
}

// Register mounts the ingest endpoint. Submissions mutate the index, so
// the route requires a bearer token.
func Register(mux *http.ServeMux, svc *ingestUC.Service) {
	mux.Handle("POST /api/ingest", auth.Authz(Handler{svc}))
}
