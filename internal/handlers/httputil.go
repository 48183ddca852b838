package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/PieInTheSky-Inc/yadc/internal/logger"
	"github.com/PieInTheSky-Inc/yadc/internal/retriever"
	"github.com/PieInTheSky-Inc/yadc/pkg/details"
)

// ErrorResponse is the body of every failed API request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, log *slog.Logger, status int, code, message string) {
	writeJSON(w, log, status, ErrorResponse{Error: message, Code: code})
}

func writeOptionsError(w http.ResponseWriter, log *slog.Logger, err error) {
	code := "INVALID_OPTIONS"
	if errors.Is(err, details.ErrInvalidGranularity) {
		code = "INVALID_GRANULARITY"
	}
	writeError(w, log, http.StatusBadRequest, code, err.Error())
}

// writeLookupError maps lookup failures to HTTP responses.
func writeLookupError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, retriever.ErrNotFound):
		writeError(w, log, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, retriever.ErrTooManyResults):
		writeError(w, log, http.StatusUnprocessableEntity, "TOO_MANY_RESULTS", err.Error())
	case errors.Is(err, details.ErrInvalidGranularity):
		writeError(w, log, http.StatusBadRequest, "INVALID_GRANULARITY", err.Error())
	default:
		logger.WithError(log, err).Error("Lookup failed")
		writeError(w, log, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}
