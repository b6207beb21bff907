package api

import (
	"encoding/json"
	"net/http"

	"github.com/jportela/puzzleladder/internal/errors"
)

// handleError centralizes error handling for HTTP responses.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := err.(*errors.AppError)
	if !ok {
		appErr = errors.NewInternalError(err)
	}

	if appErr.Status >= 500 {
		s.Log.Error().Err(appErr).Str("path", r.URL.Path).Msg("server error")
	} else {
		s.Log.Debug().Err(appErr).Str("path", r.URL.Path).Msg("client error")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
