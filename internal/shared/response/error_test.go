package response

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"launches-server/internal/shared/errors"
	"launches-server/internal/shared/logger"
	"launches-server/internal/shared/requestid"
)

func TestError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantType    string
		wantMessage string
	}{
		{
			name:        "validation is surfaced verbatim",
			err:         errors.Validation("missing required launch property"),
			wantStatus:  http.StatusBadRequest,
			wantType:    "validation",
			wantMessage: "missing required launch property",
		},
		{
			name:        "not found",
			err:         errors.NotFoundf("launch %d not found", 42),
			wantStatus:  http.StatusNotFound,
			wantType:    "not_found",
			wantMessage: "launch 42 not found",
		},
		{
			name:        "persistence details are hidden",
			err:         errors.WrapPersistence("failed to save launch", stderrors.New("pq: connection refused")),
			wantStatus:  http.StatusInternalServerError,
			wantType:    "persistence",
			wantMessage: "storage is unavailable, try again later",
		},
		{
			name:        "upstream",
			err:         errors.External("launch data download failed"),
			wantStatus:  http.StatusServiceUnavailable,
			wantType:    "external",
			wantMessage: "launch data download failed",
		},
		{
			name:        "rate limited",
			err:         errors.RateLimited("rate limit exceeded"),
			wantStatus:  http.StatusTooManyRequests,
			wantType:    "rate_limited",
			wantMessage: "rate limit exceeded",
		},
		{
			name:        "plain errors are internal",
			err:         stderrors.New("boom"),
			wantStatus:  http.StatusInternalServerError,
			wantType:    "internal",
			wantMessage: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/launches", nil)
			req = req.WithContext(requestid.WithContext(req.Context(), "req-1"))
			rec := httptest.NewRecorder()

			Error(rec, req, logger.Discard(), tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding body: %v", err)
			}

			if body.Error != tt.wantType {
				t.Errorf("error = %q, want %q", body.Error, tt.wantType)
			}
			if body.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", body.Message, tt.wantMessage)
			}
			if body.Code != tt.wantStatus {
				t.Errorf("code = %d, want %d", body.Code, tt.wantStatus)
			}
			if body.RequestID != "req-1" {
				t.Errorf("request_id = %q, want %q", body.RequestID, "req-1")
			}
		})
	}
}
