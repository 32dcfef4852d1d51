package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shaharia-lab/notifyd/internal/service"
)

const (
	errInvalidJSONBody = "invalid JSON body"
	errBodyTooLarge    = "request body too large"
)

// Server holds all dependencies for the REST API handlers.
type Server struct {
	dispatchSvc service.DispatchService
	logger      *slog.Logger
}

// New creates a new API Server backed by the provided services.
func New(dispatchSvc service.DispatchService, logger *slog.Logger) *Server {
	return &Server{
		dispatchSvc: dispatchSvc,
		logger:      logger,
	}
}

// Mount registers all API routes under the given router.
func (s *Server) Mount(r chi.Router) {
	r.Post("/send-email", s.handleSendEmail)
	r.Get("/version", s.handleVersion)
}

// ─── Shared helpers ───────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the {"detail": msg} error shape callers of /send-email expect.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}
