// Package handler exposes the session manager of the calling client over HTTP.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"business-nexus/backend/internal/platform/apperr"
	"business-nexus/backend/internal/platform/httpx"
	"business-nexus/backend/internal/session/domain"
	"business-nexus/backend/internal/session/service"
	userdomain "business-nexus/backend/internal/user/domain"
)

type Handler struct {
	Log *zap.Logger
	// ExposeResetToken returns the reset token in the forgot-password response. Development only.
	ExposeResetToken bool
}

func NewHandler(log *zap.Logger, exposeResetToken bool) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Log: log.Named("session"), ExposeResetToken: exposeResetToken}
}

// Routes mounts the auth endpoints. The client middleware must have bound a client to the context.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/session", h.ServeSession)
	r.Post("/login", h.ServeLogin)
	r.Post("/register", h.ServeRegister)
	r.Post("/logout", h.ServeLogout)
	r.Post("/forgot-password", h.ServeForgotPassword)
	r.Post("/reset-password", h.ServeResetPassword)
	r.Post("/2fa/challenge", h.ServeBeginSecondFactor)
	r.Post("/2fa/verify", h.ServeVerifySecondFactor)
	return r
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=entrepreneur investor"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=entrepreneur investor"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type verifyRequest struct {
	ChallengeID string `json:"challengeId" validate:"required"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
}

type sessionResponse struct {
	Message string         `json:"message,omitempty"`
	Session domain.Session `json:"session"`
}

type forgotPasswordResponse struct {
	Message    string `json:"message"`
	ResetToken string `json:"resetToken,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// manager returns the client's Manager, creating it on first use.
func (h *Handler) manager(w http.ResponseWriter, r *http.Request) (*service.Manager, bool) {
	m, err := service.Acquire(r.Context())
	if err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return nil, false
	}
	return m, true
}

// signedIn returns the Manager of a client that has one. A client without a Manager
// has never signed in and gets an authentication error.
func (h *Handler) signedIn(w http.ResponseWriter, r *http.Request) (*service.Manager, bool) {
	m, err := service.FromContext(r.Context())
	if err == nil && m == nil {
		err = apperr.Authentication(service.MsgSignInRequired)
	}
	if err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return nil, false
	}
	return m, true
}

// ServeSession handles GET /session. An anonymous client gets an empty session without
// a Manager being created for it.
func (h *Handler) ServeSession(w http.ResponseWriter, r *http.Request) {
	s, err := service.CurrentSession(r.Context())
	if err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResponse{Session: s})
}

// ServeLogin handles POST /login.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}
	var req loginRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	if _, err := m.Login(r.Context(), req.Email, req.Password, userdomain.Role(req.Role)); err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResponse{Message: service.MsgLoggedIn, Session: m.Current()})
}

// ServeRegister handles POST /register.
func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}
	var req registerRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	if _, err := m.Register(r.Context(), req.Name, req.Email, req.Password, userdomain.Role(req.Role)); err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, sessionResponse{Message: service.MsgRegistered, Session: m.Current()})
}

// ServeLogout handles POST /logout. It always succeeds.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	m, err := service.FromContext(r.Context())
	if err != nil {
		h.Log.Warn("logout lookup failed", zap.Error(err))
	}
	var s domain.Session
	if m != nil {
		m.Logout(r.Context())
		s = m.Current()
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResponse{Message: service.MsgLoggedOut, Session: s})
}

// ServeForgotPassword handles POST /forgot-password.
func (h *Handler) ServeForgotPassword(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}
	var req forgotPasswordRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	token, err := m.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	resp := forgotPasswordResponse{Message: service.MsgResetSent}
	if h.ExposeResetToken {
		resp.ResetToken = token
	}
	httpx.WriteJSON(w, http.StatusAccepted, resp)
}

// ServeResetPassword handles POST /reset-password.
func (h *Handler) ServeResetPassword(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}
	var req resetPasswordRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	if err := m.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, messageResponse{Message: service.MsgPasswordReset})
}

// ServeBeginSecondFactor handles POST /2fa/challenge.
func (h *Handler) ServeBeginSecondFactor(w http.ResponseWriter, r *http.Request) {
	m, ok := h.signedIn(w, r)
	if !ok {
		return
	}
	ch, err := m.BeginSecondFactor(r.Context())
	if err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, ch)
}

// ServeVerifySecondFactor handles POST /2fa/verify.
func (h *Handler) ServeVerifySecondFactor(w http.ResponseWriter, r *http.Request) {
	m, ok := h.signedIn(w, r)
	if !ok {
		return
	}
	var req verifyRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	if err := m.VerifySecondFactor(r.Context(), req.ChallengeID, req.Code); err != nil {
		httpx.WriteError(w, r, h.Log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResponse{Message: service.MsgSecondFactorVerified, Session: m.Current()})
}
