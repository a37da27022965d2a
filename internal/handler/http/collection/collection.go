// Package collection exposes the bookmark collection over HTTP: listing,
// saving, removing, annotating, and exporting saved artifacts.
package collection

import (
	"errors"
	"fmt"
	"net/http"

	"relic-search/internal/domain/entity"
	"relic-search/internal/handler/http/respond"
	colUC "relic-search/internal/usecase/collection"
)

// GetHandler serves GET /api/collection.
type GetHandler struct{ Svc *colUC.Service }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := h.Svc.Get(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, c)
}

// SaveHandler serves POST /api/collection/items.
type SaveHandler struct{ Svc *colUC.Service }

func (h SaveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJSON[SaveRequest](r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	changed, err := h.Svc.Save(r.Context(), req.Artifact, req.Notes, req.Tags)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, entity.ErrInvalidArtifact) {
			status = http.StatusBadRequest
		}
		respond.SafeError(w, status, err)
		return
	}

	status := http.StatusCreated
	if !changed {
		// already saved, idempotent
		status = http.StatusOK
	}
	respond.JSON(w, status, MutationResponse{Changed: changed})
}

// RemoveHandler serves DELETE /api/collection/items/{id}.
type RemoveHandler struct{ Svc *colUC.Service }

func (h RemoveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respond.SafeError(w, http.StatusBadRequest, errors.New("artifact id required"))
		return
	}

	changed, err := h.Svc.Remove(r.Context(), id)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	if !changed {
		respond.SafeError(w, http.StatusNotFound,
			fmt.Errorf("%w: artifact %s is not in the collection", entity.ErrNotFound, id))
		return
	}
	respond.JSON(w, http.StatusOK, MutationResponse{Changed: true})
}

// NotesHandler serves PATCH /api/collection/items/{id}/notes.
type NotesHandler struct{ Svc *colUC.Service }

func (h NotesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respond.SafeError(w, http.StatusBadRequest, errors.New("artifact id required"))
		return
	}

	req, err := decodeJSON[NotesRequest](r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	changed, err := h.Svc.UpdateNotes(r.Context(), id, req.Notes)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	if !changed {
		respond.SafeError(w, http.StatusNotFound,
			fmt.Errorf("%w: artifact %s is not in the collection", entity.ErrNotFound, id))
		return
	}
	respond.JSON(w, http.StatusOK, MutationResponse{Changed: true})
}

// ClearHandler serves DELETE /api/collection.
type ClearHandler struct{ Svc *colUC.Service }

func (h ClearHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Clear(r.Context()); err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportHandler serves GET /api/collection/export?format=csv|json.
type ExportHandler struct{ Svc *colUC.Service }

func (h ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	switch format {
	case "csv":
		csv, err := h.Svc.ExportCSV(r.Context())
		if err != nil {
			respond.SafeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="collection.csv"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(csv))
	case "json":
		data, err := h.Svc.ExportJSON(r.Context())
		if err != nil {
			respond.SafeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="collection.json"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	default:
		respond.SafeError(w, http.StatusBadRequest,
			fmt.Errorf("invalid export format %q, must be csv or json", format))
	}
}
