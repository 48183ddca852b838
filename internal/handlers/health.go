package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/PieInTheSky-Inc/yadc/internal/gamedata"
	"github.com/PieInTheSky-Inc/yadc/internal/logger"
	"github.com/PieInTheSky-Inc/yadc/internal/services"
)

// DataStatus reports when each kind's game data was last loaded.
type DataStatus interface {
	Freshness() map[gamedata.Kind]time.Time
}

var _ DataStatus = (*gamedata.Service)(nil)

// KindStatus describes the loaded data of one kind.
type KindStatus struct {
	Loaded    bool       `json:"loaded"`
	FetchedAt *time.Time `json:"fetched_at,omitempty"`
	Age       string     `json:"age,omitempty"`
}

type HealthResponse struct {
	Status    string                `json:"status"`
	Timestamp time.Time             `json:"timestamp"`
	Service   string                `json:"service"`
	Cache     string                `json:"cache"`
	Data      map[string]KindStatus `json:"data,omitempty"`
}

type HealthHandler struct {
	cache  services.Cache
	data   DataStatus
	logger *slog.Logger
	now    func() time.Time
}

// NewHealthHandler creates a health handler. cache and data may be nil.
// Data loads lazily, so kinds not loaded yet do not degrade the status.
func NewHealthHandler(cache services.Cache, data DataStatus, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		cache:  cache,
		data:   data,
		logger: logger,
		now:    time.Now,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	now := h.now()
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: now,
		Service:   "yadc",
		Cache:     h.cacheStatus(ctx),
	}
	if resp.Cache == "unhealthy" {
		resp.Status = "degraded"
	}

	if h.data != nil {
		resp.Data = make(map[string]KindStatus)
		for kind, at := range h.data.Freshness() {
			if at.IsZero() {
				resp.Data[string(kind)] = KindStatus{}
				continue
			}
			fetched := at
			resp.Data[string(kind)] = KindStatus{
				Loaded:    true,
				FetchedAt: &fetched,
				Age:       now.Sub(at).Truncate(time.Second).String(),
			}
		}
	}

	status := http.StatusOK
	if resp.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, h.logger, status, resp)
}

func (h *HealthHandler) cacheStatus(ctx context.Context) string {
	if h.cache == nil {
		return "disabled"
	}
	if err := h.cache.Ping(ctx); err != nil {
		logger.WithError(h.logger, err).Warn("Cache health check failed")
		return "unhealthy"
	}
	return "healthy"
}
