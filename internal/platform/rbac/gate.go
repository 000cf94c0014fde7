// Package rbac decides whether a session may reach a role-scoped view.
package rbac

import (
	"business-nexus/backend/internal/platform/apperr"
	sessiondomain "business-nexus/backend/internal/session/domain"
	userdomain "business-nexus/backend/internal/user/domain"
)

// Outcome is the result of the route gate.
type Outcome int

const (
	Allow Outcome = iota
	RedirectLogin
	RedirectSecondFactor
	RedirectUnauthorized
)

// Redirect targets.
const (
	LoginPath        = "/login"
	SecondFactorPath = "/2fa"
	UnauthorizedPath = "/unauthorized"
)

// Decision is the gate's verdict. Target is empty when access is allowed.
type Decision struct {
	Outcome Outcome
	Target  string
}

// Allowed reports whether the guarded content may be rendered.
func (d Decision) Allowed() bool { return d.Outcome == Allow }

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "login"
	case RedirectSecondFactor:
		return "second_factor"
	case RedirectUnauthorized:
		return "unauthorized"
	}
	return "unknown"
}

// Decide checks, in order, that a user is signed in, that the second factor is
// verified, and that the user's role equals required. It has no side effects.
func Decide(s sessiondomain.Session, required userdomain.Role) Decision {
	switch {
	case s.User == nil:
		return Decision{Outcome: RedirectLogin, Target: LoginPath}
	case !s.SecondFactorVerified:
		return Decision{Outcome: RedirectSecondFactor, Target: SecondFactorPath}
	case s.User.Role != required:
		return Decision{Outcome: RedirectUnauthorized, Target: UnauthorizedPath}
	}
	return Decision{Outcome: Allow}
}

// RequireRole is the API form of Decide: it returns the signed-in user, or an
// authentication error for anonymous or unverified sessions and a forbidden error
// for the wrong role.
func RequireRole(s sessiondomain.Session, required userdomain.Role) (*userdomain.User, error) {
	switch Decide(s, required).Outcome {
	case RedirectLogin:
		return nil, apperr.Authentication("sign in required")
	case RedirectSecondFactor:
		return nil, apperr.Authentication("second factor verification required")
	case RedirectUnauthorized:
		return nil, apperr.Forbidden("this action requires the " + string(required) + " role")
	}
	return s.User, nil
}
