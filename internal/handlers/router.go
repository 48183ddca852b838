package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PieInTheSky-Inc/yadc/internal/middleware"
	"github.com/PieInTheSky-Inc/yadc/internal/services"
)

// NewRouter mounts the health check and the lookup API. cache may be nil.
// The health check reports data freshness when data implements DataStatus.
func NewRouter(data GameData, cache services.Cache, log *slog.Logger) chi.Router {
	status, _ := data.(DataStatus)

	r := chi.NewRouter()
	r.Use(middleware.Logger(log))
	r.Method(http.MethodGet, "/health", NewHealthHandler(cache, status, log))
	NewLookupHandler(data, log).RegisterRoutes(r)
	return r
}
