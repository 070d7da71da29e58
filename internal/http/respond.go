package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/minhtran-dev/storefront/internal/http/apierr"
)

// dataResponse is the success envelope for the API.
type dataResponse struct {
	Success bool `json:"success"`
	Count   *int `json:"count,omitempty"`
	Data    any  `json:"data"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.ErrorContext(r.Context(), "error encoding response",
			slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	res := apierr.New(err)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	writeJSON(w, r, logger, res.StatusCode, res)
}
