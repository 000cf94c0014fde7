// Package handler serves dev-only second-factor code retrieval over HTTP.
package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"business-nexus/backend/internal/devotp"
	"business-nexus/backend/internal/platform/apperr"
	"business-nexus/backend/internal/platform/httpx"
)

const devOTPNote = "DEV MODE ONLY"

// Handler reads codes from the dev store. Only mounted when codes are returned to the
// client and the environment is not production.
type Handler struct {
	Log   *zap.Logger
	Store devotp.Store
}

func NewHandler(store devotp.Store, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Log: log.Named("devotp"), Store: store}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{challengeId}", h.ServeGet)
	return r
}

type otpResponse struct {
	OTP  string `json:"otp"`
	Note string `json:"note"`
}

// ServeGet handles GET /{challengeId}. Returns 404 if the code is missing or expired.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	challengeID := strings.TrimSpace(chi.URLParam(r, "challengeId"))
	if challengeID == "" {
		httpx.WriteError(w, r, h.Log, apperr.Validation("challenge_id is required"))
		return
	}
	code, ok := h.Store.Get(r.Context(), challengeID)
	if !ok {
		httpx.WriteError(w, r, h.Log, apperr.NotFound("OTP not found or expired"))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, otpResponse{OTP: code, Note: devOTPNote})
}
