package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/PieInTheSky-Inc/yadc/internal/gamedata"
	"github.com/PieInTheSky-Inc/yadc/internal/logger"
	"github.com/PieInTheSky-Inc/yadc/internal/middleware"
	"github.com/PieInTheSky-Inc/yadc/pkg/details"
)

// GameData is the lookup surface the handlers depend on.
type GameData interface {
	Lookup(ctx context.Context, kind gamedata.Kind, name string, opts gamedata.LookupOptions) (*gamedata.Result, error)
	LookupID(ctx context.Context, kind gamedata.Kind, id string, opts gamedata.LookupOptions) (*gamedata.Result, error)
	Raw(ctx context.Context, kind gamedata.Kind, id string) (string, error)
	Refresh(ctx context.Context, kind gamedata.Kind) error
}

var _ GameData = (*gamedata.Service)(nil)

type LookupHandler struct {
	data   GameData
	logger *slog.Logger
}

func NewLookupHandler(data GameData, logger *slog.Logger) *LookupHandler {
	return &LookupHandler{
		data:   data,
		logger: logger,
	}
}

// RegisterRoutes mounts the lookup API on r.
func (h *LookupHandler) RegisterRoutes(r chi.Router) {
	r.Route("/v1/{kind}", func(r chi.Router) {
		r.Get("/", h.byName)
		r.Post("/refresh", h.refresh)
		r.Get("/{id}", h.byID)
		r.Get("/{id}/raw", h.raw)
	})
}

func (h *LookupHandler) kind(w http.ResponseWriter, r *http.Request, log *slog.Logger) (gamedata.Kind, bool) {
	kind, err := gamedata.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, log, http.StatusNotFound, "UNKNOWN_KIND", err.Error())
		return "", false
	}
	return kind, true
}

func lookupOptions(r *http.Request) (gamedata.LookupOptions, error) {
	var opts gamedata.LookupOptions
	q := r.URL.Query()
	if g := q.Get("granularity"); g != "" {
		parsed, err := details.ParseGranularity(g)
		if err != nil {
			return opts, err
		}
		opts.Granularity = parsed
	}
	if e := q.Get("escaped"); e != "" {
		escaped, err := strconv.ParseBool(e)
		if err != nil {
			return opts, err
		}
		opts.Escaped = escaped
	}
	return opts, nil
}

func (h *LookupHandler) byName(w http.ResponseWriter, r *http.Request) {
	log := middleware.FromContext(r.Context(), h.logger)
	kind, ok := h.kind(w, r, log)
	if !ok {
		return
	}

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, log, http.StatusBadRequest, "MISSING_NAME", "query parameter 'name' is required")
		return
	}
	opts, err := lookupOptions(r)
	if err != nil {
		writeOptionsError(w, log, err)
		return
	}

	log = logger.WithEntity(log, string(kind), name)
	res, err := h.data.Lookup(r.Context(), kind, name, opts)
	if err != nil {
		writeLookupError(w, log, err)
		return
	}
	h.write(w, r, log, res)
}

func (h *LookupHandler) byID(w http.ResponseWriter, r *http.Request) {
	log := middleware.FromContext(r.Context(), h.logger)
	kind, ok := h.kind(w, r, log)
	if !ok {
		return
	}
	opts, err := lookupOptions(r)
	if err != nil {
		writeOptionsError(w, log, err)
		return
	}

	id := chi.URLParam(r, "id")
	log = logger.WithEntity(log, string(kind), id)
	res, err := h.data.LookupID(r.Context(), kind, id, opts)
	if err != nil {
		writeLookupError(w, log, err)
		return
	}
	h.write(w, r, log, res)
}

// write renders res as JSON, or as plain text lines with format=text.
func (h *LookupHandler) write(w http.ResponseWriter, r *http.Request, log *slog.Logger, res *gamedata.Result) {
	if r.URL.Query().Get("format") != "text" {
		writeJSON(w, log, http.StatusOK, res)
		return
	}
	if len(res.Embeds) > 0 {
		writeError(w, log, http.StatusBadRequest, "INVALID_FORMAT", "embed output is only available as json")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(strings.Join(res.Lines, "\n") + "\n")); err != nil {
		log.Error("Error writing response", "error", err)
	}
}

func (h *LookupHandler) raw(w http.ResponseWriter, r *http.Request) {
	log := middleware.FromContext(r.Context(), h.logger)
	kind, ok := h.kind(w, r, log)
	if !ok {
		return
	}

	raw, err := h.data.Raw(r.Context(), kind, chi.URLParam(r, "id"))
	if err != nil {
		writeLookupError(w, log, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(raw)); err != nil {
		log.Error("Error writing response", "error", err)
	}
}

func (h *LookupHandler) refresh(w http.ResponseWriter, r *http.Request) {
	log := middleware.FromContext(r.Context(), h.logger)
	kind, ok := h.kind(w, r, log)
	if !ok {
		return
	}

	if err := h.data.Refresh(r.Context(), kind); err != nil {
		logger.WithError(log, err).Error("Refresh failed", "kind", kind)
		writeError(w, log, http.StatusBadGateway, "REFRESH_FAILED", err.Error())
		return
	}
	log.Info("Data refreshed", "kind", kind)
	writeJSON(w, log, http.StatusOK, map[string]string{"status": "refreshed", "kind": string(kind)})
}
