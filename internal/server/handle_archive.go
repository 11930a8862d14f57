package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stadtaev/tennisfinals/internal/archive"
)

func handleGetArchive(logger *slog.Logger, store Archive) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			writeError(w, http.StatusNotFound, "archive is not configured")
			return
		}

		id := chi.URLParam(r, "id")
		data, err := store.Get(r.Context(), id)
		if errors.Is(err, archive.ErrNotFound) {
			writeError(w, http.StatusNotFound, "archived tournament not found")
			return
		}
		if err != nil {
			logger.Error("reading archive", "tournament", id, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}
