package repository

import (
	"context"
	"errors"

	"business-nexus/backend/internal/user/domain"
)

// ErrDuplicateEmail is returned by Create and Update when another user already holds the email.
var ErrDuplicateEmail = errors.New("email already in use")

// Repository is the user directory. It is the source of truth for user records.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns all users in creation order.
	List(ctx context.Context) ([]*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)
	// Search returns the users matching f in creation order.
	Search(ctx context.Context, f domain.Filter) ([]*domain.User, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, u *domain.User) error
	// Update overwrites the mutable fields of an existing user. Id, role and created_at are never changed.
	Update(ctx context.Context, u *domain.User) error
	// Delete removes the user and its credentials. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
}

// CredentialStore holds password hashes by user id. Only used when password verification is enabled.
type CredentialStore interface {
	GetPasswordHash(ctx context.Context, userID string) (string, error)
	SetPasswordHash(ctx context.Context, userID, hash string) error
}
