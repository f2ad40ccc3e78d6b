package handlers

import (
	"log/slog"
	"net/http"

	"launches-server/internal/planet"
	"launches-server/internal/shared/errors"
	"launches-server/internal/shared/response"
)

type PlanetHandler struct {
	service *planet.Service
}

func NewPlanetHandler(service *planet.Service) *PlanetHandler {
	return &PlanetHandler{service: service}
}

func (h *PlanetHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_planets")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	planets, err := h.service.ListAll(ctx)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if planets == nil {
		planets = []planet.Planet{}
	}

	response.Success(w, http.StatusOK, planets)
}
