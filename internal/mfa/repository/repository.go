package repository

import (
	"context"
	"time"

	"business-nexus/backend/internal/mfa/domain"
)

// Repository defines persistence for second-factor challenges. Expiry is
// decided by the caller's clock; repositories return expired rows as stored.
type Repository interface {
	Create(ctx context.Context, c *domain.Challenge) error
	// GetByID returns the challenge for id, or nil if missing.
	GetByID(ctx context.Context, id string) (*domain.Challenge, error)
	// IncrementAttempts records one failed verification and returns the new count.
	// Returns 0 and nil if the challenge is missing.
	IncrementAttempts(ctx context.Context, id string) (int, error)
	Delete(ctx context.Context, id string) error
}

// DefaultChallengeTTL is the challenge expiry used when OTP_TTL is unset.
const DefaultChallengeTTL = 5 * time.Minute
