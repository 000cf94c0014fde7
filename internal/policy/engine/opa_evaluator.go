package engine

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"

	userdomain "business-nexus/backend/internal/user/domain"
)

const routeQuery = "data.nexus.routes.required_role"

// DefaultRoutePolicy guards the role dashboards and the role-scoped profile pages.
const DefaultRoutePolicy = `package nexus.routes

dashboards := {
	"/dashboard/entrepreneur": "entrepreneur",
	"/dashboard/investor": "investor",
}

profile_prefixes := {
	"/profile/entrepreneur/": "entrepreneur",
	"/profile/investor/": "investor",
}

required_role = role if {
	role := dashboards[input.path]
}

required_role = role if {
	some prefix, role in profile_prefixes
	startswith(input.path, prefix)
}
`

// OPAEvaluator evaluates the route policy with an embedded OPA Rego engine.
type OPAEvaluator struct {
	source string
	query  rego.PreparedEvalQuery
}

// NewOPAEvaluator compiles policy (DefaultRoutePolicy when empty) and prepares the route query.
func NewOPAEvaluator(ctx context.Context, policy string) (*OPAEvaluator, error) {
	if strings.TrimSpace(policy) == "" {
		policy = DefaultRoutePolicy
	}
	compiler, err := ast.CompileModules(map[string]string{"routes.rego": policy})
	if err != nil {
		return nil, fmt.Errorf("compile route policy: %w", err)
	}
	pq, err := rego.New(
		rego.Query(routeQuery),
		rego.Compiler(compiler),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("prepare route policy: %w", err)
	}
	return &OPAEvaluator{source: policy, query: pq}, nil
}

// LoadPolicyFile reads a Rego route policy from file. An empty name returns DefaultRoutePolicy.
func LoadPolicyFile(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return DefaultRoutePolicy, nil
	}
	b, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("read route policy: %w", err)
	}
	return string(b), nil
}

// RequiredRole evaluates the policy for the cleaned path. A policy result that is not a
// known role is an error.
func (e *OPAEvaluator) RequiredRole(ctx context.Context, p string) (userdomain.Role, bool, error) {
	rs, err := e.query.Eval(ctx, rego.EvalInput(map[string]interface{}{"path": cleanPath(p)}))
	if err != nil {
		return "", false, fmt.Errorf("eval route policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return "", false, nil
	}
	s, ok := rs[0].Expressions[0].Value.(string)
	if !ok {
		return "", false, fmt.Errorf("route policy returned %T for %q", rs[0].Expressions[0].Value, p)
	}
	role, err := userdomain.ParseRole(s)
	if err != nil {
		return "", false, fmt.Errorf("route policy for %q: %w", p, err)
	}
	return role, true, nil
}

// HealthCheck verifies that the loaded policy still compiles and evaluates.
// Does not touch the database. Returns nil on success.
func (e *OPAEvaluator) HealthCheck(ctx context.Context) error {
	if _, err := ast.CompileModules(map[string]string{"routes.rego": e.source}); err != nil {
		return fmt.Errorf("compile route policy: %w", err)
	}
	if _, _, err := e.RequiredRole(ctx, "/"); err != nil {
		return err
	}
	return nil
}

// cleanPath collapses duplicate slashes and dot segments, keeping a trailing slash so
// "/profile/investor/" still matches its prefix.
func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	trailing := strings.HasSuffix(p, "/")
	c := path.Clean("/" + p)
	if trailing && c != "/" {
		c += "/"
	}
	return c
}
