package repository

import (
	"context"

	"business-nexus/backend/internal/document/domain"
)

// Repository persists chamber documents. Listings are ordered by upload time.
type Repository interface {
	Create(ctx context.Context, d *domain.Document) error
	// GetByID returns the document for id, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Document, error)
	// UpdateStatus sets the status to to only if it currently equals from. It reports
	// whether a row changed.
	UpdateStatus(ctx context.Context, id string, from, to domain.Status) (bool, error)
	Delete(ctx context.Context, id string) error
}
