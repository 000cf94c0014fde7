package repository

import (
	"context"

	"business-nexus/backend/internal/collaboration/domain"
)

// Repository persists collaboration requests. Listings are ordered by creation time.
type Repository interface {
	Create(ctx context.Context, r *domain.Request) error
	// GetByID returns the request for id, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.Request, error)
	// UpdateStatus sets the status to to only if it currently equals from. It reports
	// whether a row changed.
	UpdateStatus(ctx context.Context, id string, from, to domain.Status) (bool, error)
	ListByInvestor(ctx context.Context, investorID string) ([]*domain.Request, error)
	ListByEntrepreneur(ctx context.Context, entrepreneurID string) ([]*domain.Request, error)
	List(ctx context.Context) ([]*domain.Request, error)
}
