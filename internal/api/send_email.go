package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/shaharia-lab/notifyd/internal/service"
)

// maxRequestBytes caps the /send-email body; requests are a dozen short strings.
const maxRequestBytes = 64 << 10

const detailInvalidTheme = "Invalid theme value."

type sendEmailResponse struct {
	Message string `json:"message"`
}

// handleSendEmail dispatches one notification and reports the outcome.
func (s *Server) handleSendEmail(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	var req service.NotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, errBodyTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, errInvalidJSONBody)
		return
	}

	res, err := s.dispatchSvc.Dispatch(r.Context(), &req)
	if err != nil {
		s.writeDispatchError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sendEmailResponse{Message: res.Message})
}

// writeDispatchError maps the dispatcher's error taxonomy onto HTTP statuses.
func (s *Server) writeDispatchError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		kindErr       *service.InvalidEventKindError
		validationErr *service.ValidationError
	)
	switch {
	case errors.As(err, &kindErr):
		writeError(w, http.StatusBadRequest, detailInvalidTheme)
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Error())
	default:
		s.logger.Error("send-email failed",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		// Callers get the underlying error text verbatim.
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
