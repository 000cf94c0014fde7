package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"entrepreneur", RoleEntrepreneur, false},
		{" Investor ", RoleInvestor, false},
		{"admin", "", true},
		{"", "", true},
	}
	for _, tc := range tests {
		got, err := ParseRole(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseRole(%q) err = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRole_Prefix(t *testing.T) {
	if RoleEntrepreneur.Prefix() != "e" {
		t.Errorf("entrepreneur prefix = %q", RoleEntrepreneur.Prefix())
	}
	if RoleInvestor.Prefix() != "i" {
		t.Errorf("investor prefix = %q", RoleInvestor.Prefix())
	}
	if Role("").Prefix() != "" {
		t.Error("empty role prefix should be empty")
	}
}

func TestUser_Validate(t *testing.T) {
	ok := User{ID: "e1", Email: "a@x.com", Role: RoleEntrepreneur}
	if err := ok.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	noID := ok
	noID.ID = ""
	if noID.Validate() == nil {
		t.Error("missing id should fail")
	}
	noEmail := ok
	noEmail.Email = ""
	if noEmail.Validate() == nil {
		t.Error("missing email should fail")
	}
	badRole := ok
	badRole.Role = "admin"
	if badRole.Validate() != ErrInvalidRole {
		t.Error("bad role should return ErrInvalidRole")
	}
}

func TestPatch_Apply(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	u := User{ID: "e1", Name: "Sarah", Email: "sarah@x.com", Role: RoleEntrepreneur, Bio: "old", IsOnline: true, CreatedAt: created}
	bio := "new bio"
	offline := false
	got := Patch{Bio: &bio, IsOnline: &offline}.Apply(u)

	want := u
	want.Bio = "new bio"
	want.IsOnline = false
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Apply mismatch (-want +got):\n%s", diff)
	}
	if u.Bio != "old" {
		t.Error("Apply must not mutate its argument")
	}
}

func TestPatch_Empty(t *testing.T) {
	if !(Patch{}).Empty() {
		t.Error("zero patch should be empty")
	}
	name := "x"
	if (Patch{Name: &name}).Empty() {
		t.Error("patch with name should not be empty")
	}
}
