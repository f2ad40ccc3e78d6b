package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"launches-server/internal/launch"
	"launches-server/internal/shared/errors"
	"launches-server/internal/shared/response"
)

type AbortResponse struct {
	OK             bool `json:"ok"`
	AlreadyAborted bool `json:"alreadyAborted,omitempty"`
}

type LaunchHandler struct {
	service *launch.Service
}

func NewLaunchHandler(service *launch.Service) *LaunchHandler {
	return &LaunchHandler{service: service}
}

// Collection serves /v1/launches.
func (h *LaunchHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.GetAll(w, r)
	case http.MethodPost:
		h.Create(w, r)
	default:
		response.Error(w, r, slog.With("handler", "launches"), errors.MethodNotAllowed(r.Method))
	}
}

func (h *LaunchHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_launches")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	query := r.URL.Query()
	page := launch.ParsePagination(query.Get("page"), query.Get("limit"))

	launches, err := h.service.List(ctx, page)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, launches)
}

func (h *LaunchHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "create_launch")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var input launch.NewLaunch
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	created, err := h.service.Schedule(ctx, input)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, created)
}

func (h *LaunchHandler) Abort(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "abort_launch")

	if r.Method != http.MethodDelete {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	idStr := r.PathValue("id")
	flightNumber, err := strconv.Atoi(idStr)
	if err != nil {
		response.Error(w, r, logger, errors.Validationf("invalid launch id %q", idStr))
		return
	}

	outcome, err := h.service.Abort(ctx, flightNumber)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	switch outcome {
	case launch.AbortNotFound:
		response.Error(w, r, logger, errors.NotFoundf("launch %d not found", flightNumber))
	case launch.AbortAlreadyAborted:
		response.Success(w, http.StatusOK, AbortResponse{OK: true, AlreadyAborted: true})
	default:
		response.Success(w, http.StatusOK, AbortResponse{OK: true})
	}
}
