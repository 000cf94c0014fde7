package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	collabhandler "business-nexus/backend/internal/collaboration/handler"
	collabservice "business-nexus/backend/internal/collaboration/service"
	dochandler "business-nexus/backend/internal/document/handler"
	docservice "business-nexus/backend/internal/document/service"
	meetinghandler "business-nexus/backend/internal/meeting/handler"
	meetingservice "business-nexus/backend/internal/meeting/service"
	"business-nexus/backend/internal/policy/engine"
	sessionhandler "business-nexus/backend/internal/session/handler"
	sessionservice "business-nexus/backend/internal/session/service"
	userhandler "business-nexus/backend/internal/user/handler"
	userrepo "business-nexus/backend/internal/user/repository"
)

// ClientCookie names the cookie carrying the client id.
const ClientCookie = "nexus-client"

const clientIDKey = "client_id"

// HTTPDeps holds everything the HTTP API serves.
type HTTPDeps struct {
	Log      *zap.Logger
	Cookies  sessions.Store
	Sessions *sessionservice.Registry
	Routes   engine.RouteEvaluator
	Users    userrepo.Repository
	Requests *collabservice.Store
	Meetings *meetingservice.Scheduler
	// Documents backs /api/v1/documents; optional.
	Documents *docservice.Chamber
	// Health serves GET /health; optional.
	Health http.Handler
	// DevOTP serves GET /api/v1/dev/otp/{challengeId}; set only in development.
	DevOTP http.Handler
	// ExposeResetToken returns password reset tokens in the API response (development only).
	ExposeResetToken bool
}

// NewCookieStore returns the client cookie store. An empty key yields a random one, so
// client ids do not survive a restart.
func NewCookieStore(key string, secure bool) *sessions.CookieStore {
	k := []byte(key)
	if len(k) == 0 {
		k = securecookie.GenerateRandomKey(32)
	}
	store := sessions.NewCookieStore(k)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int((30 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// NewHTTPHandler builds the router: the JSON API under /api/v1, the gated views and
// the readiness check.
func NewHTTPHandler(deps HTTPDeps) http.Handler {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("http")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	if deps.Health != nil {
		r.Method(http.MethodGet, "/health", deps.Health)
	}

	r.Group(func(r chi.Router) {
		r.Use(clientSession(deps.Cookies, deps.Sessions, log))

		r.Route("/api/v1", func(r chi.Router) {
			r.Mount("/auth", sessionhandler.NewHandler(log, deps.ExposeResetToken).Routes())
			r.Mount("/users", userhandler.NewHandler(deps.Users, log).Routes())
			r.Mount("/requests", collabhandler.NewHandler(deps.Requests, log).Routes())
			r.Mount("/meetings", meetinghandler.NewHandler(deps.Meetings, log).Routes())
			if deps.Documents != nil {
				r.Mount("/documents", dochandler.NewHandler(deps.Documents, log).Routes())
			}
			if deps.DevOTP != nil {
				r.Mount("/dev/otp", deps.DevOTP)
			}
		})

		v := &views{log: log, users: deps.Users, requests: deps.Requests, meetings: deps.Meetings}
		r.Get("/login", v.servePublic("login"))
		r.Get("/2fa", v.servePublic("2fa"))
		r.Get("/unauthorized", v.servePublic("unauthorized"))
		r.Group(func(r chi.Router) {
			r.Use(routeGate(deps.Routes, log))
			r.Get("/dashboard/entrepreneur", v.serveDashboard)
			r.Get("/dashboard/investor", v.serveDashboard)
			r.Get("/profile/{role}/{id}", v.serveProfile)
		})
	})
	return r
}
