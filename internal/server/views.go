package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	collabdomain "business-nexus/backend/internal/collaboration/domain"
	collabservice "business-nexus/backend/internal/collaboration/service"
	meetingdomain "business-nexus/backend/internal/meeting/domain"
	meetingservice "business-nexus/backend/internal/meeting/service"
	"business-nexus/backend/internal/platform/apperr"
	"business-nexus/backend/internal/platform/httpx"
	sessiondomain "business-nexus/backend/internal/session/domain"
	sessionservice "business-nexus/backend/internal/session/service"
	userdomain "business-nexus/backend/internal/user/domain"
	userrepo "business-nexus/backend/internal/user/repository"
)

// views serves the page models behind the gated and public routes.
type views struct {
	log      *zap.Logger
	users    userrepo.Repository
	requests *collabservice.Store
	meetings *meetingservice.Scheduler
}

type publicView struct {
	View    string                `json:"view"`
	Session sessiondomain.Session `json:"session"`
}

type dashboardView struct {
	User     *userdomain.User                 `json:"user"`
	Requests []*collabdomain.Request          `json:"requests"`
	Meetings []meetingdomain.ConfirmedMeeting `json:"meetings"`
	// Directory lists the other role: investors for an entrepreneur and vice versa.
	Directory []*userdomain.User `json:"directory"`
}

type profileView struct {
	Profile *userdomain.User `json:"profile"`
	Own     bool             `json:"own"`
}

// current returns the caller's session. It writes the error and returns false when the
// session cannot be loaded.
func (v *views) current(w http.ResponseWriter, r *http.Request) (sessiondomain.Session, bool) {
	s, err := sessionservice.CurrentSession(r.Context())
	if err != nil {
		httpx.WriteError(w, r, v.log, err)
		return s, false
	}
	return s, true
}

func (v *views) servePublic(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := v.current(w, r)
		if !ok {
			return
		}
		httpx.WriteJSON(w, http.StatusOK, publicView{View: name, Session: s})
	}
}

// serveDashboard renders the signed-in user's dashboard. The route gate has already
// matched the user's role to the path.
func (v *views) serveDashboard(w http.ResponseWriter, r *http.Request) {
	s, ok := v.current(w, r)
	if !ok {
		return
	}
	if !s.Authenticated() {
		httpx.WriteError(w, r, v.log, apperr.Authentication("sign in required"))
		return
	}
	u := s.User
	ctx := r.Context()

	var (
		reqs  []*collabdomain.Request
		other userdomain.Role
		err   error
	)
	if u.Role == userdomain.RoleInvestor {
		reqs, err = v.requests.ListForInvestor(ctx, u.ID)
		other = userdomain.RoleEntrepreneur
	} else {
		reqs, err = v.requests.ListForEntrepreneur(ctx, u.ID)
		other = userdomain.RoleInvestor
	}
	if err != nil {
		httpx.WriteError(w, r, v.log, err)
		return
	}
	meetings, err := v.meetings.ListForUser(ctx, u.ID)
	if err != nil {
		httpx.WriteError(w, r, v.log, err)
		return
	}
	directory, err := v.users.ListByRole(ctx, other)
	if err != nil {
		httpx.WriteError(w, r, v.log, err)
		return
	}
	if reqs == nil {
		reqs = []*collabdomain.Request{}
	}
	if directory == nil {
		directory = []*userdomain.User{}
	}
	httpx.WriteJSON(w, http.StatusOK, dashboardView{User: u, Requests: reqs, Meetings: meetings, Directory: directory})
}

// serveProfile renders /profile/{role}/{id}. A user whose role differs from the path
// is not found.
func (v *views) serveProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	u, err := v.users.GetByID(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, v.log, err)
		return
	}
	if u == nil || string(u.Role) != chi.URLParam(r, "role") {
		httpx.WriteError(w, r, v.log, apperr.NotFound("user not found"))
		return
	}
	s, ok := v.current(w, r)
	if !ok {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, profileView{Profile: u, Own: s.Authenticated() && s.User.ID == u.ID})
}
