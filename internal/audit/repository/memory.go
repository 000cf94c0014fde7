package repository

import (
	"context"
	"sync"

	"business-nexus/backend/internal/audit/domain"
)

// MemoryRepository keeps audit logs in process memory, in insertion order.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []domain.AuditLog
}

// NewMemoryRepository returns an empty in-memory audit repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Create appends a copy of a.
func (r *MemoryRepository) Create(ctx context.Context, a *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *a)
	return nil
}

// ListByUser returns at most limit entries for userID, newest first. limit <= 0 means no limit.
func (r *MemoryRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.AuditLog
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].UserID != userID {
			continue
		}
		e := r.entries[i]
		out = append(out, &e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
