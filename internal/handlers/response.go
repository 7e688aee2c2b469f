package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	apperrors "github.com/tropicaldog17/dashboards/internal/errors"
)

type errorResponse struct {
	Error string `json:"error"`
}

// sourceErrorResponse keeps the table shape so the dashboard can render an
// empty table next to the message.
type sourceErrorResponse struct {
	Rows  []interface{} `json:"rows"`
	Error string        `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error kind to its status code. Unknown errors are logged
// and reported as 500 without their detail.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case apperrors.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrAuthenticationFailed):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: apperrors.ErrAuthenticationFailed.Error()})
	case errors.Is(err, apperrors.ErrSourceUnavailable):
		logger.Warn("listings source unavailable", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, sourceErrorResponse{Rows: []interface{}{}, Error: apperrors.ErrSourceUnavailable.Error()})
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		logger.Error("ledger store unavailable", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: apperrors.ErrStoreUnavailable.Error()})
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
