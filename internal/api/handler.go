// Package api serves the clip engine as a local JSON API.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"clipkeep/internal/clip"
)

const maxRequestBodySize = 1 << 20 // 1MB

// maxImportBodySize bounds POST /import, which carries a whole export document.
const maxImportBodySize = 32 << 20

type handler struct {
	svc    *clip.Service
	logger clip.Logger
}

// NewHandler returns the API router. Requests are served one at a time
// because the engine is single-writer.
func NewHandler(svc *clip.Service, token string, logger clip.Logger) http.Handler {
	h := &handler{svc: svc, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(BearerAuth(token))
	r.Use(serialize(&sync.Mutex{}))

	r.Route("/records", func(r chi.Router) {
		r.Get("/", h.listRecords)
		r.Post("/", h.addRecord)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getRecord)
			r.Patch("/", h.patchRecord)
			r.Delete("/", h.deleteRecord)
			r.Get("/stats", h.recordStats)
			r.Post("/favorite", h.toggleFavorite)
			r.Post("/copy", h.copyRecord)
		})
	})
	r.Post("/poll", h.poll)

	r.Route("/folders", func(r chi.Router) {
		r.Get("/", h.listFolders)
		r.Post("/", h.createFolder)
		r.Post("/recount", h.recountFolders)
		r.Patch("/{id}", h.renameFolder)
		r.Delete("/{id}", h.deleteFolder)
	})

	r.Get("/settings", h.getSettings)
	r.Put("/settings", h.putSettings)

	r.Get("/export", h.export)
	r.Post("/import", h.importDocument)

	return r
}

func serialize(mu *sync.Mutex) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			defer mu.Unlock()
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, format string, args ...any) {
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"message": fmt.Sprintf(format, args...),
			"status":  code,
		},
	})
}

// writeError maps engine errors onto status codes.
func (h *handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, clip.ErrNotFound):
		httpError(w, http.StatusNotFound, "%v", err)
	case errors.Is(err, clip.ErrDuplicate):
		httpError(w, http.StatusConflict, "%v", err)
	case errors.Is(err, clip.ErrInvalid):
		httpError(w, http.StatusBadRequest, "%v", err)
	default:
		h.logger.Error("api request failed", "error", err)
		httpError(w, http.StatusInternalServerError, "%v", err)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %v: %w", err, clip.ErrInvalid)
	}
	return nil
}
