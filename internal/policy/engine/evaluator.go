// Package engine resolves the role a view requires from the route policy.
package engine

import (
	"context"

	userdomain "business-nexus/backend/internal/user/domain"
)

// RouteEvaluator maps a request path to the role that may view it.
type RouteEvaluator interface {
	// RequiredRole returns the role guarding path and true, or false when the path is public.
	RequiredRole(ctx context.Context, path string) (userdomain.Role, bool, error)
}
