package collection_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"relic-search/internal/domain/entity"
	colHandler "relic-search/internal/handler/http/collection"
	colUC "relic-search/internal/usecase/collection"
)

// memoryRepo keeps collections in a map, mimicking the document-per-key
// storage contract: a missing key yields an empty collection.
type memoryRepo struct {
	docs    map[string]*entity.Collection
	getErr  error
	saveErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{docs: map[string]*entity.Collection{}}
}

func (r *memoryRepo) Get(_ context.Context, key string) (*entity.Collection, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	if c, ok := r.docs[key]; ok {
		return c, nil
	}
	return entity.NewCollection(time.Now()), nil
}

func (r *memoryRepo) Save(_ context.Context, key string, c *entity.Collection) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.docs[key] = c
	return nil
}

func (r *memoryRepo) Clear(_ context.Context, key string) error {
	delete(r.docs, key)
	return nil
}

func testArtifact(sourceID string) entity.Artifact {
	return entity.Artifact{
		ID:       "met-" + sourceID,
		SourceID: sourceID,
		Source:   entity.SourceMet,
		Title:    "Ceremonial mask",
	}
}

// newServer mounts the collection routes without the auth middleware so
// handler behavior is tested in isolation.
func newServer(repo *memoryRepo) (*http.ServeMux, *colUC.Service) {
	svc := colUC.NewService(repo)
	mux := http.NewServeMux()
	mux.Handle("GET /api/collection", colHandler.GetHandler{Svc: svc})
	mux.Handle("GET /api/collection/export", colHandler.ExportHandler{Svc: svc})
	mux.Handle("POST /api/collection/items", colHandler.SaveHandler{Svc: svc})
	mux.Handle("DELETE /api/collection/items/{id}", colHandler.RemoveHandler{Svc: svc})
	mux.Handle("PATCH /api/collection/items/{id}/notes", colHandler.NotesHandler{Svc: svc})
	mux.Handle("DELETE /api/collection", colHandler.ClearHandler{Svc: svc})
	return mux, svc
}

func saveArtifact(t *testing.T, mux *http.ServeMux, a entity.Artifact, notes string, tags []string) {
	t.Helper()
	body, err := json.Marshal(colHandler.SaveRequest{Artifact: a, Notes: notes, Tags: tags})
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	req := httptest.NewRequest("POST", "/api/collection/items", strings.NewReader(string(body)))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 saving artifact, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestGetEmptyCollection(t *testing.T) {
	mux, _ := newServer(newMemoryRepo())

	req := httptest.NewRequest("GET", "/api/collection", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var c entity.Collection
	if err := json.NewDecoder(rr.Body).Decode(&c); err != nil {
		t.Fatalf("failed to decode collection: %v", err)
	}
	if len(c.Items) != 0 {
		t.Errorf("expected empty collection, got %d items", len(c.Items))
	}
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	mux, _ := newServer(newMemoryRepo())

	saveArtifact(t, mux, testArtifact("1"), "seen at the Met", []string{"mask", "bronze"})

	req := httptest.NewRequest("GET", "/api/collection", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	var c entity.Collection
	if err := json.NewDecoder(rr.Body).Decode(&c); err != nil {
		t.Fatalf("failed to decode collection: %v", err)
	}
	if len(c.Items) != 1 {
		t.Fatalf("expected one item, got %d", len(c.Items))
	}
	if c.Items[0].Notes != "seen at the Met" {
		t.Errorf("notes not persisted: %q", c.Items[0].Notes)
	}
	if len(c.Items[0].Tags) != 2 {
		t.Errorf("tags not persisted: %v", c.Items[0].Tags)
	}
}

func TestSaveDuplicateIsIdempotent(t *testing.T) {
	mux, _ := newServer(newMemoryRepo())
	saveArtifact(t, mux, testArtifact("1"), "", nil)

	body, _ := json.Marshal(colHandler.SaveRequest{Artifact: testArtifact("1")})
	req := httptest.NewRequest("POST", "/api/collection/items", strings.NewReader(string(body)))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for duplicate save, got %d", rr.Code)
	}
	var resp colHandler.MutationResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Changed {
		t.Error("duplicate save must not report a change")
	}
}

func TestSaveRejectsInvalidArtifact(t *testing.T) {
	mux, _ := newServer(newMemoryRepo())

	// mismatched composite id
	bad := testArtifact("1")
	bad.ID = "va-999"
	body, _ := json.Marshal(colHandler.SaveRequest{Artifact: bad})

	req := httptest.NewRequest("POST", "/api/collection/items", strings.NewReader(string(body)))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestSaveRejectsMalformedBody(t *testing.T) {
	mux, _ := newServer(newMemoryRepo())

	req := httptest.NewRequest("POST", "/api/collection/items", strings.NewReader(`{"artifact":`))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
}

func TestRemoveArtifact(t *testing.T) {
	mux, _ := newServer(newMemoryRepo())
	saveArtifact(t, mux, testArtifact("1"), "", nil)

	req := httptest.NewRequest("DELETE", "/api/collection/items/met-1", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	// removing again reports not found
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest("DELETE", "/api/collection/items/met-1", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second remove, got %d", rr.Code)
	}
}

func TestUpdateNotes(t *testing.T) {
	mux, _ := newServer(newMemoryRepo())
	saveArtifact(t, mux, testArtifact("1"), "old", nil)

	body := strings.NewReader(`{"notes":"new notes"}`)
	req := httptest.NewRequest("PATCH", "/api/collection/items/met-1/notes", body)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	getRR := httptest.NewRecorder()
	mux.ServeHTTP(getRR, httptest.NewRequest("GET", "/api/collection", nil))
	var c entity.Collection
	if err := json.NewDecoder(getRR.Body).Decode(&c); err != nil {
		t.Fatalf("failed to decode collection: %v", err)
	}
	if c.Items[0].Notes != "new notes" {
		t.Errorf("notes not updated: %q", c.Items[0].Notes)
	}
}

func TestUpdateNotesUnknownArtifact(t *testing.T) {
	mux, _ := newServer(newMemoryRepo())

	body := strings.NewReader(`{"notes":"anything"}`)
	req := httptest.NewRequest("PATCH", "/api/collection/items/met-999/notes", body)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}

func TestClearCollection(t *testing.T) {
	repo := newMemoryRepo()
	mux, _ := newServer(repo)
	saveArtifact(t, mux, testArtifact("1"), "", nil)

	req := httptest.NewRequest("DELETE", "/api/collection", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if len(repo.docs) != 0 {
		t.Error("expected the stored document to be deleted")
	}
}

func TestExportCSV(t *testing.T) {
	mux, _ := newServer(newMemoryRepo())
	saveArtifact(t, mux, testArtifact("1"), "", nil)

	req := httptest.NewRequest("GET", "/api/collection/export?format=csv", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("expected text/csv content type, got %q", ct)
	}
	bodyStr := rr.Body.String()
	if !strings.HasPrefix(bodyStr, "title,date,") {
		t.Errorf("expected unquoted header row, got %q", bodyStr)
	}
	if !strings.Contains(bodyStr, `"Ceremonial mask"`) {
		t.Errorf("expected artifact row, got %q", bodyStr)
	}
}

func TestExportJSONIsDefault(t *testing.T) {
	mux, _ := newServer(newMemoryRepo())
	saveArtifact(t, mux, testArtifact("1"), "a note", []string{"tag"})

	req := httptest.NewRequest("GET", "/api/collection/export", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}

	var items []entity.SavedArtifact
	if err := json.NewDecoder(rr.Body).Decode(&items); err != nil {
		t.Fatalf("failed to decode export: %v", err)
	}
	if len(items) != 1 || items[0].Notes != "a note" {
		t.Errorf("unexpected export payload: %+v", items)
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	mux, _ := newServer(newMemoryRepo())

	req := httptest.NewRequest("GET", "/api/collection/export?format=xml", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
}
