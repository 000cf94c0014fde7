package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func discoveryFixture() []*User {
	return []*User{
		{ID: "e1", Name: "Sarah Johnson", Role: RoleEntrepreneur, StartupName: "TechWave AI", Industry: "FinTech", PitchSummary: "Analytics for SMBs"},
		{ID: "e2", Name: "David Chen", Role: RoleEntrepreneur, StartupName: "GreenLife", Industry: "CleanTech", PitchSummary: "Compostable packaging"},
		{ID: "e3", Name: "Maya Patel", Role: RoleEntrepreneur, StartupName: "HealthPulse", Industry: "HealthTech", PitchSummary: "Remote monitoring"},
		{ID: "i1", Name: "Michael Rodriguez", Role: RoleInvestor},
	}
}

func TestFilter_Matches(t *testing.T) {
	tests := []struct {
		name string
		f    Filter
		want []string
	}{
		{"zero filter", Filter{}, []string{"e1", "e2", "e3", "i1"}},
		{"role", Filter{Role: RoleEntrepreneur}, []string{"e1", "e2", "e3"}},
		{"query on name", Filter{Query: "maya"}, []string{"e3"}},
		{"query on startup", Filter{Query: "greenlife"}, []string{"e2"}},
		{"query on pitch", Filter{Query: "ANALYTICS"}, []string{"e1"}},
		{"query on industry", Filter{Query: "tech"}, []string{"e1", "e2", "e3"}},
		{"industry", Filter{Industries: []string{"healthtech"}}, []string{"e3"}},
		{"industries any", Filter{Industries: []string{"FinTech", "CleanTech"}}, []string{"e1", "e2"}},
		{"query and industry", Filter{Query: "sarah", Industries: []string{"CleanTech"}}, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got []string
			for _, u := range discoveryFixture() {
				if tc.f.Matches(u) {
					got = append(got, u.ID)
				}
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("matches (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIndustries(t *testing.T) {
	users := append(discoveryFixture(), &User{ID: "e9", Industry: "fintech"})
	if diff := cmp.Diff([]string{"FinTech", "CleanTech", "HealthTech"}, Industries(users)); diff != "" {
		t.Errorf("Industries (-want +got):\n%s", diff)
	}
}

func TestUser_Redacted(t *testing.T) {
	u := &User{ID: "e1", Email: "sarah@techwave.io"}
	r := u.Redacted()
	if r.Email != "" {
		t.Errorf("Email = %q, want empty", r.Email)
	}
	if u.Email == "" {
		t.Error("Redacted modified the original")
	}
	var nilUser *User
	if nilUser.Redacted() != nil {
		t.Error("Redacted of nil should be nil")
	}
}
