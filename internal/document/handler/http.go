// Package handler serves the document chamber over HTTP.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"business-nexus/backend/internal/document/domain"
	"business-nexus/backend/internal/document/service"
	"business-nexus/backend/internal/platform/httpx"
	"business-nexus/backend/internal/platform/rbac"
	sessionservice "business-nexus/backend/internal/session/service"
	userdomain "business-nexus/backend/internal/user/domain"
)

// Handler exposes the signed-in entrepreneur's own documents. Every route requires a
// verified entrepreneur session.
type Handler struct {
	Log     *zap.Logger
	Chamber *service.Chamber
}

func NewHandler(chamber *service.Chamber, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Log: log.Named("documents"), Chamber: chamber}
}

// Routes mounts the document endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.ServeUpload)
	r.Get("/{id}", h.ServeGet)
	r.Patch("/{id}", h.ServeUpdateStatus)
	r.Delete("/{id}", h.ServeDelete)
	return r
}

type uploadRequest struct {
	Name string `json:"name" validate:"required,max=255"`
	Type string `json:"type" validate:"max=50"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type listResponse struct {
	Documents []*domain.Document `json:"documents"`
}

// owner returns the verified entrepreneur making the request, or writes the error.
func (h *Handler) owner(w http.ResponseWriter, r *http.Request) (*userdomain.User, bool) {
	s, err := sessionservice.CurrentSession(r.Context())
	if err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return nil, false
	}
	u, err := rbac.RequireRole(s, userdomain.RoleEntrepreneur)
	if err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return nil, false
	}
	return u, true
}

// ServeList handles GET /.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	u, ok := h.owner(w, r)
	if !ok {
		return
	}
	docs, err := h.Chamber.List(r.Context(), u.ID)
	if err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	if docs == nil {
		docs = []*domain.Document{}
	}
	httpx.WriteJSON(w, http.StatusOK, listResponse{Documents: docs})
}

// ServeUpload handles POST /.
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	u, ok := h.owner(w, r)
	if !ok {
		return
	}
	var req uploadRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	d, err := h.Chamber.Upload(r.Context(), u.ID, req.Name, req.Type)
	if err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, d)
}

// ServeGet handles GET /{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	u, ok := h.owner(w, r)
	if !ok {
		return
	}
	d, err := h.Chamber.Get(r.Context(), u.ID, chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, d)
}

// ServeUpdateStatus handles PATCH /{id} with {"status": "in_review"|"signed"}.
func (h *Handler) ServeUpdateStatus(w http.ResponseWriter, r *http.Request) {
	u, ok := h.owner(w, r)
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	d, err := h.Chamber.SetStatus(r.Context(), u.ID, chi.URLParam(r, "id"), domain.Status(req.Status))
	if err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, d)
}

// ServeDelete handles DELETE /{id}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	u, ok := h.owner(w, r)
	if !ok {
		return
	}
	if err := h.Chamber.Delete(r.Context(), u.ID, chi.URLParam(r, "id")); err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
