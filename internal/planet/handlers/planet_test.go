package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"launches-server/internal/planet"
	"launches-server/internal/shared/cache"
	"launches-server/internal/shared/database/databasetest"
	"launches-server/internal/shared/logger"
)

func TestPlanetHandler_GetAll(t *testing.T) {
	repo := planet.NewRepository(databasetest.New(t), logger.Discard())
	service := planet.NewService(repo, cache.NewMemory(), time.Minute, logger.Discard())
	h := NewPlanetHandler(service)

	t.Run("should return an empty array before ingestion", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.GetAll(rec, httptest.NewRequest(http.MethodGet, "/v1/planets", nil))

		if rec.Code != http.StatusOK || rec.Body.String() != "[]\n" {
			t.Fatalf("wanted: 200 []\ngot: %d %q", rec.Code, rec.Body)
		}
	})

	t.Run("should list ingested planets", func(t *testing.T) {
		if _, err := service.IngestFile(context.Background(), "../testdata/kepler_sample.csv"); err != nil {
			t.Fatalf("wanted: nil\ngot: %v", err)
		}

		rec := httptest.NewRecorder()
		h.GetAll(rec, httptest.NewRequest(http.MethodGet, "/v1/planets", nil))

		var got []map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("wanted: JSON\ngot: %v", err)
		}
		if len(got) != 3 || got[0]["keplerName"] != "Kepler-1229 b" {
			t.Fatalf("wanted: 3 planets keyed by keplerName\ngot: %v", got)
		}
	})

	t.Run("should reject other methods", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.GetAll(rec, httptest.NewRequest(http.MethodPost, "/v1/planets", nil))

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("wanted: %d\ngot: %d", http.StatusMethodNotAllowed, rec.Code)
		}
	})
}
