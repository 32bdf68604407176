package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/s0up4200/moviedeck/filter"
	"github.com/s0up4200/moviedeck/tmdb"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeFetchError maps a catalog error to a status code. Upstream failures
// are reported as 502 with a generic message; the cause is only logged.
func writeFetchError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := http.StatusBadGateway
	var compErr *filter.CompilationError
	switch {
	case tmdb.IsNotFound(err):
		status = http.StatusNotFound
		msg = "movie not found"
	case errors.Is(err, tmdb.ErrEmptyQuery):
		status = http.StatusBadRequest
		msg = "search query is empty"
	case errors.Is(err, filter.ErrFilterNotFound), errors.As(err, &compErr):
		status = http.StatusBadRequest
		msg = err.Error()
	}

	hlog.FromRequest(r).Warn().Err(err).Int("status", status).Msg("Request failed")
	writeError(w, status, msg)
}
