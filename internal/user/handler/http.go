// Package handler serves the user directory over HTTP.
package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"business-nexus/backend/internal/platform/apperr"
	"business-nexus/backend/internal/platform/httpx"
	sessionservice "business-nexus/backend/internal/session/service"
	"business-nexus/backend/internal/user/domain"
	userrepo "business-nexus/backend/internal/user/repository"
)

const (
	msgUserNotFound    = "user not found"
	msgSignInRequired  = "sign in required"
	msgOwnProfileOnly  = "you can only edit your own profile"
	msgEmptyPatch      = "no profile fields to update"
	msgUnknownRoleList = "role must be entrepreneur or investor"
)

type Handler struct {
	Log   *zap.Logger
	Users userrepo.Repository
}

func NewHandler(users userrepo.Repository, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Log: log.Named("users"), Users: users}
}

// Routes mounts the directory endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/industries", h.ServeIndustries)
	r.Get("/{id}", h.ServeGet)
	r.Patch("/{id}", h.ServeUpdate)
	return r
}

type listResponse struct {
	Users []*domain.User `json:"users"`
}

type industriesResponse struct {
	Industries []string `json:"industries"`
}

type patchRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	AvatarURL *string `json:"avatarUrl,omitempty" validate:"omitempty,url"`
	Bio       *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
	IsOnline  *bool   `json:"isOnline,omitempty"`

	StartupName  *string `json:"startupName,omitempty" validate:"omitempty,max=100"`
	Industry     *string `json:"industry,omitempty" validate:"omitempty,max=50"`
	PitchSummary *string `json:"pitchSummary,omitempty" validate:"omitempty,max=2000"`
}

// ServeList handles GET /?role=&q=&industry=. industry may repeat and matches any of
// its values. Without filters every user is listed. Emails are only shown to signed-in
// callers.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	f := domain.Filter{Query: query.Get("q")}
	if q := strings.TrimSpace(query.Get("role")); q != "" {
		role, err := domain.ParseRole(q)
		if err != nil {
			httpx.WriteError(w, r, h.Log, apperr.Validation(msgUnknownRoleList))
			return
		}
		f.Role = role
	}
	for _, v := range query["industry"] {
		if v = strings.TrimSpace(v); v != "" {
			f.Industries = append(f.Industries, v)
		}
	}
	signedIn, ok := h.signedIn(w, r)
	if !ok {
		return
	}
	users, err := h.Users.Search(r.Context(), f)
	if err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	out := make([]*domain.User, 0, len(users))
	for _, u := range users {
		out = append(out, visible(u, signedIn))
	}
	httpx.WriteJSON(w, http.StatusOK, listResponse{Users: out})
}

// ServeIndustries handles GET /industries: the distinct industries of entrepreneurs,
// used to build discovery filters.
func (h *Handler) ServeIndustries(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.ListByRole(r.Context(), domain.RoleEntrepreneur)
	if err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, industriesResponse{Industries: domain.Industries(users)})
}

// ServeGet handles GET /{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	signedIn, ok := h.signedIn(w, r)
	if !ok {
		return
	}
	u, err := h.Users.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	if u == nil {
		httpx.WriteError(w, r, h.Log, apperr.NotFound(msgUserNotFound))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, visible(u, signedIn))
}

// signedIn reports whether the caller has a signed-in session. It writes the error and
// returns ok false when the session cannot be loaded.
func (h *Handler) signedIn(w http.ResponseWriter, r *http.Request) (signedIn, ok bool) {
	s, err := sessionservice.CurrentSession(r.Context())
	if err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return false, false
	}
	return s.Authenticated(), true
}

func visible(u *domain.User, signedIn bool) *domain.User {
	if signedIn {
		return u
	}
	return u.Redacted()
}

// ServeUpdate handles PATCH /{id}. Only the signed-in user may edit their own profile.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	m, err := sessionservice.FromContext(r.Context())
	if err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	if m == nil {
		httpx.WriteError(w, r, h.Log, apperr.Authentication(msgSignInRequired))
		return
	}
	current := m.Current().User
	if current == nil {
		httpx.WriteError(w, r, h.Log, apperr.Authentication(msgSignInRequired))
		return
	}
	id := chi.URLParam(r, "id")
	if id != current.ID {
		httpx.WriteError(w, r, h.Log, apperr.Forbidden(msgOwnProfileOnly))
		return
	}
	var req patchRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	patch := domain.Patch{
		Name:         req.Name,
		Email:        req.Email,
		AvatarURL:    req.AvatarURL,
		Bio:          req.Bio,
		IsOnline:     req.IsOnline,
		StartupName:  req.StartupName,
		Industry:     req.Industry,
		PitchSummary: req.PitchSummary,
	}
	if patch.Empty() {
		httpx.WriteError(w, r, h.Log, apperr.Validation(msgEmptyPatch))
		return
	}
	u, err := m.UpdateProfile(r.Context(), id, patch)
	if err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}
