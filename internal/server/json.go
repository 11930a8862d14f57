package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stadtaev/tennisfinals/internal/tennis"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// errorStatus maps tournament and storage errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, tennis.ErrScore), errors.Is(err, ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, tennis.ErrNotFound), errors.Is(err, ErrNotFound), errors.Is(err, errNoTournament):
		return http.StatusNotFound
	case errors.Is(err, tennis.ErrPrecondition), errors.Is(err, tennis.ErrState), errors.Is(err, ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeDomainError writes err with its mapped status. Unmapped errors are
// reported as "internal error" without detail.
func writeDomainError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}
