package utils

import (
	"encoding/json"
	"net/http"

	"github.com/GlebRadaev/afriart/internal/pg"
	"go.uber.org/zap"
)

type Response struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("can't write response", zap.Error(err))
	}
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, Response{Message: message})
}

func RespondWithDetails(w http.ResponseWriter, code int, message, details string) {
	RespondWithJSON(w, code, Response{Message: message, Details: details})
}

// RespondWithInternalError hides err from the client. An unreachable
// database is reported as 503 so callers can retry.
func RespondWithInternalError(w http.ResponseWriter, err error) {
	if pg.IsUnavailable(err) {
		zap.L().Error("database unavailable", zap.Error(err))
		RespondWithError(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
		return
	}
	zap.L().Error("internal error", zap.Error(err))
	RespondWithError(w, http.StatusInternalServerError, "Internal server error")
}
