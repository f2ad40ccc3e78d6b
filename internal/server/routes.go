package server

import (
	"log/slog"
	"net/http"

	"launches-server/internal/launch"
	launchHandlers "launches-server/internal/launch/handlers"
	"launches-server/internal/middleware"
	"launches-server/internal/planet"
	planetHandlers "launches-server/internal/planet/handlers"
	serverHandlers "launches-server/internal/server/handlers"
	"launches-server/internal/shared/config"
	"launches-server/internal/shared/metrics"
)

type Routes struct {
	db            serverHandlers.Pinger
	planetService *planet.Service
	launchService *launch.Service
	cfg           *config.Config
	rateLimiter   *middleware.RateLimiter
	logger        *slog.Logger
}

func NewRoutes(db serverHandlers.Pinger, planetService *planet.Service, launchService *launch.Service, cfg *config.Config, logger *slog.Logger) *Routes {
	return &Routes{
		db:            db,
		planetService: planetService,
		launchService: launchService,
		cfg:           cfg,
		rateLimiter:   middleware.NewRateLimiter(cfg.RateLimit),
		logger:        logger,
	}
}

// RateLimiter exposes the limiter so its cleanup loop can run alongside the server.
func (r *Routes) RateLimiter() *middleware.RateLimiter {
	return r.rateLimiter
}

func (r *Routes) Setup() *http.ServeMux {
	logger := r.logger.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	healthHandler := serverHandlers.NewHealthHandler(r.db)
	planetHandler := planetHandlers.NewPlanetHandler(r.planetService)
	launchHandler := launchHandlers.NewLaunchHandler(r.launchService)

	mux.Handle("/v1/health", healthHandler)
	mux.HandleFunc("/v1/planets", planetHandler.GetAll)
	mux.HandleFunc("/v1/launches", launchHandler.Collection)
	mux.HandleFunc("/v1/launches/{id}", launchHandler.Abort)
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/", serverHandlers.NewStaticHandler(r.cfg.Server.PublicDir))

	logger.Info("Routes configured successfully",
		"api_endpoints", []string{"/v1/health", "/v1/planets", "/v1/launches", "/v1/launches/{id}"},
		"public_dir", r.cfg.Server.PublicDir,
	)

	return mux
}

// Handler returns the routes wrapped in the middleware chain.
func (r *Routes) Handler() http.Handler {
	cors := middleware.NewCORS(r.cfg.Frontend)

	return middleware.Chain(r.Setup(),
		middleware.RequestLogger,
		middleware.Metrics,
		r.rateLimiter.Middleware,
		cors.Middleware,
	)
}
