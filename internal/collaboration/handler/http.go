// Package handler serves collaboration requests over HTTP.
package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"business-nexus/backend/internal/collaboration/domain"
	"business-nexus/backend/internal/collaboration/service"
	"business-nexus/backend/internal/platform/apperr"
	"business-nexus/backend/internal/platform/httpx"
	"business-nexus/backend/internal/platform/rbac"
	sessiondomain "business-nexus/backend/internal/session/domain"
	sessionservice "business-nexus/backend/internal/session/service"
	userdomain "business-nexus/backend/internal/user/domain"
)

const msgSignInRequired = "sign in required"

type Handler struct {
	Log   *zap.Logger
	Store *service.Store
}

func NewHandler(store *service.Store, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Log: log.Named("requests"), Store: store}
}

// Routes mounts the request endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)
	r.Get("/{id}", h.ServeGet)
	r.Patch("/{id}", h.ServeUpdateStatus)
	return r
}

type createRequest struct {
	EntrepreneurID string `json:"entrepreneurId" validate:"required"`
	Message        string `json:"message" validate:"max=2000"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type listResponse struct {
	Requests []*domain.Request `json:"requests"`
}

// session returns the caller's session, anonymous when the client has none. It writes
// the error and returns false when the session cannot be loaded.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (sessiondomain.Session, bool) {
	s, err := sessionservice.CurrentSession(r.Context())
	if err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return s, false
	}
	return s, true
}

// ServeCreate handles POST /. The signed-in, verified investor is the sender.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	investor, err := rbac.RequireRole(s, userdomain.RoleInvestor)
	if err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	var req createRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	created, err := h.Store.CreateRequest(r.Context(), investor.ID, req.EntrepreneurID, req.Message)
	if err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, created)
}

// ServeUpdateStatus handles PATCH /{id}. Only the addressed, verified entrepreneur may resolve.
func (h *Handler) ServeUpdateStatus(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	entrepreneur, err := rbac.RequireRole(s, userdomain.RoleEntrepreneur)
	if err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	var req updateStatusRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	updated, err := h.Store.Resolve(r.Context(), entrepreneur.ID, chi.URLParam(r, "id"), domain.Status(req.Status))
	if err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, updated)
}

// ServeGet handles GET /{id} for a signed-in user.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if !s.Authenticated() {
		httpx.WriteError(w, r, h.Log, apperr.Authentication(msgSignInRequired))
		return
	}
	req, err := h.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, req)
}

// ServeList handles GET /?investorId=&entrepreneurId=. With neither filter the signed-in
// user's own requests are listed, by their role.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if !s.Authenticated() {
		httpx.WriteError(w, r, h.Log, apperr.Authentication(msgSignInRequired))
		return
	}
	investorID := strings.TrimSpace(r.URL.Query().Get("investorId"))
	entrepreneurID := strings.TrimSpace(r.URL.Query().Get("entrepreneurId"))
	if investorID == "" && entrepreneurID == "" {
		if s.User.Role == userdomain.RoleInvestor {
			investorID = s.User.ID
		} else {
			entrepreneurID = s.User.ID
		}
	}

	var (
		out []*domain.Request
		err error
	)
	switch {
	case investorID != "" && entrepreneurID != "":
		var all []*domain.Request
		all, err = h.Store.ListForInvestor(r.Context(), investorID)
		for _, req := range all {
			if req.EntrepreneurID == entrepreneurID {
				out = append(out, req)
			}
		}
	case investorID != "":
		out, err = h.Store.ListForInvestor(r.Context(), investorID)
	default:
		out, err = h.Store.ListForEntrepreneur(r.Context(), entrepreneurID)
	}
	if err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	if out == nil {
		out = []*domain.Request{}
	}
	httpx.WriteJSON(w, http.StatusOK, listResponse{Requests: out})
}
