package collection

import (
	"net/http"

	"relic-search/internal/handler/http/auth"
	colUC "relic-search/internal/usecase/collection"
)

// Register mounts the collection endpoints on the mux. Reads and exports
// are public; every mutation requires a bearer token.
func Register(mux *http.ServeMux, svc *colUC.Service) {
	mux.Handle("GET /api/collection", GetHandler{svc})
	mux.Handle("GET /api/collection/export", ExportHandler{svc})

	mux.Handle("POST /api/collection/items", auth.Authz(SaveHandler{svc}))
	mux.Handle("DELETE /api/collection/items/{id}", auth.Authz(RemoveHandler{svc}))
	mux.Handle("PATCH /api/collection/items/{id}/notes", auth.Authz(NotesHandler{svc}))
	mux.Handle("DELETE /api/collection", auth.Authz(ClearHandler{svc}))
}
