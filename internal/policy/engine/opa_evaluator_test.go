package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	userdomain "business-nexus/backend/internal/user/domain"
)

func newDefault(t *testing.T) *OPAEvaluator {
	t.Helper()
	e, err := NewOPAEvaluator(context.Background(), "")
	if err != nil {
		t.Fatalf("NewOPAEvaluator: %v", err)
	}
	return e
}

func TestOPAEvaluator_DefaultRoutes(t *testing.T) {
	ctx := context.Background()
	e := newDefault(t)
	tests := []struct {
		path        string
		wantRole    userdomain.Role
		wantGuarded bool
	}{
		{"/dashboard/entrepreneur", userdomain.RoleEntrepreneur, true},
		{"/dashboard/investor", userdomain.RoleInvestor, true},
		{"/profile/entrepreneur/e1", userdomain.RoleEntrepreneur, true},
		{"/profile/investor/i2", userdomain.RoleInvestor, true},
		{"//dashboard//investor", userdomain.RoleInvestor, true},
		{"/profile/investor/../entrepreneur/e1", userdomain.RoleEntrepreneur, true},
		{"/profile/investor", "", false},
		{"/login", "", false},
		{"/", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		role, guarded, err := e.RequiredRole(ctx, tc.path)
		if err != nil {
			t.Errorf("RequiredRole(%q): %v", tc.path, err)
			continue
		}
		if role != tc.wantRole || guarded != tc.wantGuarded {
			t.Errorf("RequiredRole(%q) = %q, %v; want %q, %v", tc.path, role, guarded, tc.wantRole, tc.wantGuarded)
		}
	}
}

func TestOPAEvaluator_CustomPolicyFromFile(t *testing.T) {
	ctx := context.Background()
	policy := `package nexus.routes

required_role = "investor" if {
	startswith(input.path, "/deals/")
}
`
	name := filepath.Join(t.TempDir(), "routes.rego")
	if err := os.WriteFile(name, []byte(policy), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	src, err := LoadPolicyFile(name)
	if err != nil {
		t.Fatalf("LoadPolicyFile: %v", err)
	}
	e, err := NewOPAEvaluator(ctx, src)
	if err != nil {
		t.Fatalf("NewOPAEvaluator: %v", err)
	}
	role, guarded, err := e.RequiredRole(ctx, "/deals/42")
	if err != nil || !guarded || role != userdomain.RoleInvestor {
		t.Errorf("RequiredRole(/deals/42) = %q, %v, %v", role, guarded, err)
	}
	if _, guarded, _ := e.RequiredRole(ctx, "/dashboard/investor"); guarded {
		t.Error("custom policy replaces the default table")
	}
}

func TestLoadPolicyFile(t *testing.T) {
	src, err := LoadPolicyFile("")
	if err != nil || src != DefaultRoutePolicy {
		t.Errorf("LoadPolicyFile(\"\") should return the default policy, err=%v", err)
	}
	if _, err := LoadPolicyFile("/nonexistent/routes.rego"); err == nil {
		t.Error("missing file should fail")
	}
}

func TestNewOPAEvaluator_InvalidPolicy(t *testing.T) {
	if _, err := NewOPAEvaluator(context.Background(), "package nexus.routes\n\nrequired_role = if {"); err == nil {
		t.Error("invalid policy should fail to compile")
	}
}

func TestOPAEvaluator_UnknownRoleIsError(t *testing.T) {
	ctx := context.Background()
	e, err := NewOPAEvaluator(ctx, "package nexus.routes\n\nrequired_role = \"admin\"\n")
	if err != nil {
		t.Fatalf("NewOPAEvaluator: %v", err)
	}
	if _, _, err := e.RequiredRole(ctx, "/anything"); err == nil {
		t.Error("non-role policy output should be an error")
	}
}

func TestOPAEvaluator_HealthCheck(t *testing.T) {
	if err := newDefault(t).HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck: %v", err)
	}
}

func TestCleanPath(t *testing.T) {
	tests := map[string]string{
		"":                     "/",
		"/":                    "/",
		"dashboard/investor":   "/dashboard/investor",
		"/profile/investor/":   "/profile/investor/",
		"/a/./b/../c":          "/a/c",
		"/dashboard/investor/": "/dashboard/investor/",
	}
	for in, want := range tests {
		if got := cleanPath(in); got != want {
			t.Errorf("cleanPath(%q) = %q, want %q", in, got, want)
		}
	}
}
