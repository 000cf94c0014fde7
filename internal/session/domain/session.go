package domain

import (
	"errors"

	userdomain "business-nexus/backend/internal/user/domain"
)

// ErrVerifiedWithoutUser is returned by Validate when the second-factor flag is set on an anonymous session.
var ErrVerifiedWithoutUser = errors.New("second factor verified without a user")

// Session is the single active identity of one client.
type Session struct {
	User                 *userdomain.User `json:"user"`
	Loading              bool             `json:"isLoading"`
	SecondFactorVerified bool             `json:"is2FAVerified"`
}

// Authenticated reports whether a user is signed in.
func (s Session) Authenticated() bool {
	return s.User != nil
}

// Validate checks that a verified second factor implies a signed-in user.
func (s Session) Validate() error {
	if s.SecondFactorVerified && s.User == nil {
		return ErrVerifiedWithoutUser
	}
	return nil
}

// Clone returns a deep copy; the user record is not shared.
func (s *Session) Clone() Session {
	if s == nil {
		return Session{}
	}
	c := *s
	c.User = s.User.Clone()
	return c
}
