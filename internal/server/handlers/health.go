package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"launches-server/internal/shared/errors"
	"launches-server/internal/shared/response"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
}

// Pinger is satisfied by *database.DB.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// ServeHTTP answers 200 when the store is reachable and 503 otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "health", "remote_addr", r.RemoteAddr)

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	status, dbStatus, code := "healthy", "connected", http.StatusOK
	if err := h.db.Ping(r.Context()); err != nil {
		logger.Warn("Database ping failed", "error", err)
		status, dbStatus, code = "degraded", "disconnected", http.StatusServiceUnavailable
	}

	response.Success(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Database:  dbStatus,
	})
}
