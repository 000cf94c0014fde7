package repository

import (
	"context"
	"sync"

	"business-nexus/backend/internal/mfa/domain"
)

// MemoryRepository is an in-memory Repository.
type MemoryRepository struct {
	mu sync.RWMutex
	m  map[string]domain.Challenge
}

// NewMemoryRepository returns an empty challenge repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{m: make(map[string]domain.Challenge)}
}

// Create stores c, replacing any challenge with the same id.
func (r *MemoryRepository) Create(ctx context.Context, c *domain.Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[c.ID] = *c
	return nil
}

// GetByID returns a copy of the challenge, or nil if missing.
func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*domain.Challenge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.m[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// IncrementAttempts bumps the failed-attempt counter for id.
func (r *MemoryRepository) IncrementAttempts(ctx context.Context, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.m[id]
	if !ok {
		return 0, nil
	}
	c.Attempts++
	r.m[id] = c
	return c.Attempts, nil
}

// Delete removes the challenge. Deleting a missing id is not an error.
func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, id)
	return nil
}
