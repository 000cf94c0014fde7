package domain

import (
	"errors"
	"strings"
	"time"
)

// Role is the single, immutable role of a directory member.
type Role string

const (
	RoleEntrepreneur Role = "entrepreneur"
	RoleInvestor     Role = "investor"
)

// ErrInvalidRole is returned by ParseRole for anything other than entrepreneur or investor.
var ErrInvalidRole = errors.New("role must be entrepreneur or investor")

// ParseRole normalizes s and returns the matching Role.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleEntrepreneur:
		return RoleEntrepreneur, nil
	case RoleInvestor:
		return RoleInvestor, nil
	}
	return "", ErrInvalidRole
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleEntrepreneur || r == RoleInvestor
}

// Prefix is the first letter of the role, used for sequential directory ids (e1, i2).
func (r Role) Prefix() string {
	if r == "" {
		return ""
	}
	return string(r)[:1]
}

// User is a directory entry. The JSON shape is the record persisted in client storage.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Role      Role      `json:"role"`
	AvatarURL string    `json:"avatarUrl"`
	Bio       string    `json:"bio"`
	IsOnline  bool      `json:"isOnline"`
	CreatedAt time.Time `json:"createdAt"`

	// Discovery profile; set on entrepreneurs.
	StartupName  string `json:"startupName,omitempty"`
	Industry     string `json:"industry,omitempty"`
	PitchSummary string `json:"pitchSummary,omitempty"`
}

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.ID == "" {
		return errors.New("id is required")
	}
	if u.Email == "" {
		return errors.New("email is required")
	}
	if !u.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}

// Clone returns a copy of u, or nil for nil.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// Redacted returns a copy without the email address.
func (u *User) Redacted() *User {
	c := u.Clone()
	if c != nil {
		c.Email = ""
	}
	return c
}

// Patch is a partial profile update. Nil fields are left unchanged.
// ID, Role and CreatedAt are immutable and have no field here.
type Patch struct {
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	IsOnline  *bool   `json:"isOnline,omitempty"`

	StartupName  *string `json:"startupName,omitempty"`
	Industry     *string `json:"industry,omitempty"`
	PitchSummary *string `json:"pitchSummary,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.AvatarURL == nil && p.Bio == nil && p.IsOnline == nil &&
		p.StartupName == nil && p.Industry == nil && p.PitchSummary == nil
}

// Apply returns u with every set field of p overwritten.
func (p Patch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.AvatarURL != nil {
		u.AvatarURL = *p.AvatarURL
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.IsOnline != nil {
		u.IsOnline = *p.IsOnline
	}
	if p.StartupName != nil {
		u.StartupName = *p.StartupName
	}
	if p.Industry != nil {
		u.Industry = *p.Industry
	}
	if p.PitchSummary != nil {
		u.PitchSummary = *p.PitchSummary
	}
	return u
}
