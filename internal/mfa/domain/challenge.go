package domain

import "time"

// MaxAttempts is the number of wrong codes a challenge tolerates before it is discarded.
const MaxAttempts = 5

// Challenge is a pending second-factor verification for one client's session.
// Only the hash of the code is kept.
type Challenge struct {
	ID        string
	UserID    string
	ClientID  string
	CodeHash  string
	Attempts  int
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the challenge can no longer be answered at now.
func (c *Challenge) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}

// Exhausted reports whether the failed-attempt budget is spent.
func (c *Challenge) Exhausted() bool {
	return c.Attempts >= MaxAttempts
}
