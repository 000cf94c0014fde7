// Package handler lists confirmed meetings over HTTP.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"business-nexus/backend/internal/meeting/domain"
	"business-nexus/backend/internal/meeting/service"
	"business-nexus/backend/internal/platform/apperr"
	"business-nexus/backend/internal/platform/httpx"
	sessionservice "business-nexus/backend/internal/session/service"
)

type Handler struct {
	Log       *zap.Logger
	Scheduler *service.Scheduler
}

func NewHandler(s *service.Scheduler, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Log: log.Named("meetings"), Scheduler: s}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	return r
}

type listResponse struct {
	Meetings []domain.ConfirmedMeeting `json:"meetings"`
}

// ServeList handles GET / and returns the meetings the signed-in user takes part in.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	s, err := sessionservice.CurrentSession(r.Context())
	if err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	if !s.Authenticated() {
		httpx.WriteError(w, r, h.Log, apperr.Authentication("sign in required"))
		return
	}
	meetings, err := h.Scheduler.ListForUser(r.Context(), s.User.ID)
	if err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, listResponse{Meetings: meetings})
}
