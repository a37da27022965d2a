package ingest_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"relic-search/internal/domain/entity"
	ingestHandler "relic-search/internal/handler/http/ingest"
	"relic-search/internal/repository"
	ingestUC "relic-search/internal/usecase/ingest"
)

type stubIndex struct {
	saved   []*entity.Artifact
	saveErr error
}

func (s *stubIndex) Upsert(_ context.Context, _ *entity.Artifact, _ []float32) error {
	return errors.New("not used")
}

func (s *stubIndex) SavePending(_ context.Context, a *entity.Artifact) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, a)
	return nil
}

func (s *stubIndex) ListPending(_ context.Context, _ int) ([]entity.Artifact, error) {
	return nil, nil
}

func (s *stubIndex) SearchSimilar(_ context.Context, _ []float32, _ repository.VectorSearchOptions) ([]repository.SimilarArtifact, error) {
	return nil, nil
}

func (s *stubIndex) Count(_ context.Context) (int64, error) { return 0, nil }

func postIngest(index *stubIndex, body string) *httptest.ResponseRecorder {
	h := ingestHandler.Handler{Svc: ingestUC.NewService(index)}
	req := httptest.NewRequest("POST", "/api/ingest", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestIngestQueuesArtifact(t *testing.T) {
	index := &stubIndex{}

	rr := postIngest(index, `{
		"id": "met-123",
		"sourceId": "123",
		"source": "met",
		"title": "Gilded bronze figure",
		"date": "",
		"dateEarliest": null,
		"dateLatest": null
	}`)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rr.Code, rr.Body.String())
	}
	if len(index.saved) != 1 || index.saved[0].ID != "met-123" {
		t.Fatalf("expected artifact queued, got %+v", index.saved)
	}

	var resp ingestHandler.Response
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "queued" || resp.ID != "met-123" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestIngestRejectsInvalidArtifact(t *testing.T) {
	index := &stubIndex{}

	// missing title
	rr := postIngest(index, `{
		"id": "met-123",
		"sourceId": "123",
		"source": "met",
		"title": "",
		"date": "",
		"dateEarliest": null,
		"dateLatest": null
	}`)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
	if len(index.saved) != 0 {
		t.Error("invalid artifact must not be queued")
	}
}

func TestIngestRejectsMalformedBody(t *testing.T) {
	rr := postIngest(&stubIndex{}, `{"id":`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
}

func TestIngestRepositoryFailure(t *testing.T) {
	index := &stubIndex{saveErr: errors.New("connection refused")}

	rr := postIngest(index, `{
		"id": "met-123",
		"sourceId": "123",
		"source": "met",
		"title": "Gilded bronze figure",
		"date": "",
		"dateEarliest": null,
		"dateLatest": null
	}`)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rr.Code)
	}
}
