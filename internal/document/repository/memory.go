package repository

import (
	"context"
	"sync"

	"business-nexus/backend/internal/document/domain"
)

// MemoryRepository keeps documents in insertion order.
type MemoryRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*domain.Document
}

// NewMemoryRepository returns a repository holding a copy of seed.
func NewMemoryRepository(seed []*domain.Document) *MemoryRepository {
	r := &MemoryRepository{byID: make(map[string]*domain.Document, len(seed))}
	for _, d := range seed {
		if _, dup := r.byID[d.ID]; dup {
			continue
		}
		r.order = append(r.order, d.ID)
		r.byID[d.ID] = d.Clone()
	}
	return r
}

func (r *MemoryRepository) Create(ctx context.Context, d *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byID[d.ID]; !dup {
		r.order = append(r.order, d.ID)
	}
	r.byID[d.ID] = d.Clone()
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[id].Clone(), nil
}

func (r *MemoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Document
	for _, id := range r.order {
		if d := r.byID[id]; d.OwnerID == ownerID {
			out = append(out, d.Clone())
		}
	}
	return out, nil
}

func (r *MemoryRepository) UpdateStatus(ctx context.Context, id string, from, to domain.Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byID[id]
	if !ok || d.Status != from {
		return false, nil
	}
	d.Status = to
	return true, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return nil
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
