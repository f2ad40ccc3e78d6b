package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"launches-server/internal/shared/errors"
	"launches-server/internal/shared/requestid"
)

// ErrorResponse represents the JSON error response sent to clients
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Code      int    `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// Error logs an error and sends a JSON error response to the client.
// Handlers never log errors themselves; this is the single place they are reported.
func Error(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	ErrorWithMessage(w, r, logger, err, clientMessage(err))
}

// ErrorWithMessage logs an error and sends a JSON error response with a custom client message
func ErrorWithMessage(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, message string) {
	errorType := errors.GetType(err)
	statusCode := StatusCode(errorType)
	requestID := requestid.FromContext(r.Context())

	logError(logger, r, requestID, err, errorType, statusCode)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	// The status line is already written; an encoding failure cannot be reported.
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:     string(errorType),
		Message:   message,
		Code:      statusCode,
		RequestID: requestID,
	})
}

// StatusCode maps error types to HTTP status codes
func StatusCode(errorType errors.ErrorType) int {
	switch errorType {
	case errors.ErrorTypeNotFound:
		return http.StatusNotFound
	case errors.ErrorTypeValidation:
		return http.StatusBadRequest
	case errors.ErrorTypeConflict:
		return http.StatusConflict
	case errors.ErrorTypeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case errors.ErrorTypeExternal:
		return http.StatusServiceUnavailable
	case errors.ErrorTypeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Store and internal failures are reported generically; their details stay in the logs.
func clientMessage(err error) string {
	switch errors.GetType(err) {
	case errors.ErrorTypePersistence:
		return "storage is unavailable, try again later"
	case errors.ErrorTypeInternal:
		return "internal server error"
	default:
		return err.Error()
	}
}

func logError(logger *slog.Logger, r *http.Request, requestID string, err error, errorType errors.ErrorType, statusCode int) {
	logCtx := logger.With(
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
		"request_id", requestID,
		"error_type", errorType,
		"status_code", statusCode,
	)

	switch errorType {
	case errors.ErrorTypeNotFound:
		logCtx.Debug("Resource not found", "error", err)
	case errors.ErrorTypeValidation:
		logCtx.Debug("Validation error", "error", err)
	case errors.ErrorTypeMethodNotAllowed:
		logCtx.Debug("Method not allowed", "error", err)
	case errors.ErrorTypeConflict:
		logCtx.Info("Conflict error", "error", err)
	case errors.ErrorTypeRateLimited:
		logCtx.Warn("Rate limit exceeded", "error", err)
	case errors.ErrorTypeExternal:
		logCtx.Error("External service error", "error", err)
	case errors.ErrorTypePersistence:
		logCtx.Error("Persistence error", "error", err)
	default:
		logCtx.Error("Internal server error", "error", err)
	}
}

// Success sends a JSON success response to the client
func Success(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}
