package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"launches-server/internal/launch"
	"launches-server/internal/shared/config"
	"launches-server/internal/shared/database/databasetest"
	"launches-server/internal/shared/logger"
	"launches-server/internal/shared/response"
)

type planetSet map[string]bool

func (p planetSet) Exists(_ context.Context, name string) (bool, error) {
	return p[name], nil
}

func setupTestMux(t *testing.T) (*http.ServeMux, *launch.Service) {
	t.Helper()

	repo := launch.NewRepository(databasetest.New(t), logger.Discard())
	service := launch.NewService(repo, planetSet{"Kepler-442 b": true}, config.LaunchesConfig{
		DefaultCustomers:   []string{"Zero To Mastery", "NASA"},
		AllocationAttempts: 5,
	}, logger.Discard())

	h := NewLaunchHandler(service)
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/launches", h.Collection)
	mux.HandleFunc("/v1/launches/{id}", h.Abort)
	return mux, service
}

func do(t *testing.T, mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

const validBody = `{"mission":"Kepler Exploration X","rocket":"Explorer IS1","target":"Kepler-442 b","launchDate":"December 27, 2030"}`

func TestLaunchHandler_Create(t *testing.T) {
	t.Run("should return the committed launch", func(t *testing.T) {
		mux, _ := setupTestMux(t)

		rec := do(t, mux, http.MethodPost, "/v1/launches", validBody)
		if rec.Code != http.StatusCreated {
			t.Fatalf("wanted: %d\ngot: %d (%s)", http.StatusCreated, rec.Code, rec.Body)
		}

		var got map[string]interface{}
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("wanted: JSON\ngot: %v", err)
		}
		if got["flightNumber"] != float64(100) || got["upcoming"] != true || got["success"] != true {
			t.Fatalf("wanted: flight 100 upcoming and successful\ngot: %v", got)
		}
		if got["launchDate"] != "2030-12-27T00:00:00Z" {
			t.Fatalf("wanted: ISO launch date\ngot: %v", got["launchDate"])
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{"mission":`},
		{"missing fields", `{"mission":"X"}`},
		{"invalid date", `{"mission":"X","rocket":"Y","target":"Kepler-442 b","launchDate":"soon"}`},
		{"unknown planet", `{"mission":"X","rocket":"Y","target":"Earth","launchDate":"2030-01-01"}`},
	}

	for _, tt := range tests {
		t.Run("should reject "+tt.name, func(t *testing.T) {
			mux, _ := setupTestMux(t)

			rec := do(t, mux, http.MethodPost, "/v1/launches", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("wanted: %d\ngot: %d (%s)", http.StatusBadRequest, rec.Code, rec.Body)
			}

			var got response.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil || got.Error != "validation" {
				t.Fatalf("wanted: validation error body\ngot: %s", rec.Body)
			}
		})
	}
}

func TestLaunchHandler_GetAll(t *testing.T) {
	mux, service := setupTestMux(t)

	rec := do(t, mux, http.MethodGet, "/v1/launches", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("wanted: 200 []\ngot: %d %s", rec.Code, rec.Body)
	}

	for i := 0; i < 7; i++ {
		if _, err := service.Schedule(context.Background(), launch.NewLaunch{
			Mission: "M", Rocket: "R", Target: "Kepler-442 b", LaunchDate: "2030-01-01",
		}); err != nil {
			t.Fatalf("schedule %d: %v", i, err)
		}
	}

	rec = do(t, mux, http.MethodGet, "/v1/launches?page=-2&limit=5", "")
	var got []launch.Launch
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("wanted: JSON array\ngot: %v", err)
	}
	if len(got) != 2 || got[0].FlightNumber != 105 {
		t.Fatalf("wanted: flights 105 and 106\ngot: %+v", got)
	}
}

func TestLaunchHandler_Abort(t *testing.T) {
	mux, service := setupTestMux(t)
	created, err := service.Schedule(context.Background(), launch.NewLaunch{
		Mission: "M", Rocket: "R", Target: "Kepler-442 b", LaunchDate: "2030-01-01",
	})
	if err != nil {
		t.Fatalf("wanted: nil\ngot: %v", err)
	}

	tests := []struct {
		name     string
		target   string
		wantCode int
		wantBody string
	}{
		{"aborts an upcoming launch", "/v1/launches/100", http.StatusOK, `{"ok":true}`},
		{"reports a repeated abort", "/v1/launches/100", http.StatusOK, `{"ok":true,"alreadyAborted":true}`},
		{"rejects a non numeric id", "/v1/launches/abc", http.StatusBadRequest, ""},
		{"reports a missing launch", "/v1/launches/999", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run("should "+tt.name, func(t *testing.T) {
			rec := do(t, mux, http.MethodDelete, tt.target, "")
			if rec.Code != tt.wantCode {
				t.Fatalf("wanted: %d\ngot: %d (%s)", tt.wantCode, rec.Code, rec.Body)
			}
			if tt.wantBody != "" && strings.TrimSpace(rec.Body.String()) != tt.wantBody {
				t.Fatalf("wanted: %s\ngot: %s", tt.wantBody, rec.Body)
			}
		})
	}

	if created.FlightNumber != 100 {
		t.Fatalf("wanted: 100\ngot: %d", created.FlightNumber)
	}
}

func TestLaunchHandler_MethodNotAllowed(t *testing.T) {
	mux, _ := setupTestMux(t)

	for _, tt := range []struct{ method, target string }{
		{http.MethodPut, "/v1/launches"},
		{http.MethodGet, "/v1/launches/100"},
	} {
		rec := do(t, mux, tt.method, tt.target, "")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s: wanted: %d\ngot: %d", tt.method, tt.target, http.StatusMethodNotAllowed, rec.Code)
		}
	}
}
