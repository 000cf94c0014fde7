package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"business-nexus/backend/internal/platform/apperr"
	"business-nexus/backend/internal/platform/httpx"
	"business-nexus/backend/internal/platform/rbac"
	"business-nexus/backend/internal/policy/engine"
	"business-nexus/backend/internal/server/interceptors"
	sessionservice "business-nexus/backend/internal/session/service"
)

// requestLogger logs one line per request at a level chosen by the status code.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			lvl := zapcore.DebugLevel
			switch {
			case status >= 500:
				lvl = zapcore.WarnLevel
			case status >= 400:
				lvl = zapcore.InfoLevel
			}
			if ce := log.Check(lvl, "http request"); ce != nil {
				ce.Write(
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", status),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}
		})
	}
}

// clientSession resolves the client id from the cookie, issuing one on first contact, and
// binds the client to the request context. The client's session manager is resolved
// lazily by the handlers that need it.
func clientSession(store sessions.Store, registry *sessionservice.Registry, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := store.Get(r, ClientCookie)
			if err != nil {
				// Undecodable cookie (rotated key); sess is a fresh session.
				log.Debug("client cookie discarded", zap.Error(err))
			}
			clientID, _ := sess.Values[clientIDKey].(string)
			if clientID == "" {
				clientID = uuid.NewString()
				sess.Values[clientIDKey] = clientID
				if err := sess.Save(r, w); err != nil {
					httpx.WriteError(w, r, log, err)
					return
				}
			}

			ctx := interceptors.WithClient(r.Context(), clientID, interceptors.HTTPClientIP(r))
			next.ServeHTTP(w, r.WithContext(sessionservice.WithRegistry(ctx, registry, clientID)))
		})
	}
}

// routeGate enforces the route policy. Browser navigations are redirected with 303;
// API callers get 401 or 403 with the redirect target in the body.
func routeGate(routes engine.RouteEvaluator, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, guarded, err := routes.RequiredRole(r.Context(), r.URL.Path)
			if err != nil {
				httpx.WriteError(w, r, log, err)
				return
			}
			if !guarded {
				next.ServeHTTP(w, r)
				return
			}
			s, err := sessionservice.CurrentSession(r.Context())
			if err != nil {
				httpx.WriteError(w, r, log, err)
				return
			}
			d := rbac.Decide(s, role)
			if d.Allowed() {
				next.ServeHTTP(w, r)
				return
			}
			log.Debug("route gate",
				zap.String("path", r.URL.Path),
				zap.String("required_role", string(role)),
				zap.Stringer("outcome", d.Outcome),
			)
			if httpx.WantsHTML(r) {
				http.Redirect(w, r, d.Target, http.StatusSeeOther)
				return
			}
			err = apperr.Authentication(gateMessage(d.Outcome))
			if d.Outcome == rbac.RedirectUnauthorized {
				err = apperr.Forbidden(gateMessage(d.Outcome))
			}
			httpx.WriteJSON(w, httpx.StatusFor(err), httpx.ErrorBody{Error: apperr.Message(err, ""), Redirect: d.Target})
		})
	}
}

func gateMessage(o rbac.Outcome) string {
	switch o {
	case rbac.RedirectLogin:
		return "sign in required"
	case rbac.RedirectSecondFactor:
		return "second factor verification required"
	}
	return "you are not authorized to view this page"
}
