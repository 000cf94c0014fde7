package repository

import (
	"context"
	"sync"

	"business-nexus/backend/internal/collaboration/domain"
)

// MemoryRepository keeps requests in insertion order.
type MemoryRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*domain.Request
}

// NewMemoryRepository returns a repository holding a copy of seed.
func NewMemoryRepository(seed []*domain.Request) *MemoryRepository {
	r := &MemoryRepository{byID: make(map[string]*domain.Request, len(seed))}
	for _, req := range seed {
		if _, dup := r.byID[req.ID]; dup {
			continue
		}
		r.order = append(r.order, req.ID)
		r.byID[req.ID] = req.Clone()
	}
	return r
}

func (r *MemoryRepository) Create(ctx context.Context, req *domain.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byID[req.ID]; !dup {
		r.order = append(r.order, req.ID)
	}
	r.byID[req.ID] = req.Clone()
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[id].Clone(), nil
}

func (r *MemoryRepository) UpdateStatus(ctx context.Context, id string, from, to domain.Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.byID[id]
	if !ok || req.Status != from {
		return false, nil
	}
	req.Status = to
	return true, nil
}

func (r *MemoryRepository) ListByInvestor(ctx context.Context, investorID string) ([]*domain.Request, error) {
	return r.filter(func(req *domain.Request) bool { return req.InvestorID == investorID }), nil
}

func (r *MemoryRepository) ListByEntrepreneur(ctx context.Context, entrepreneurID string) ([]*domain.Request, error) {
	return r.filter(func(req *domain.Request) bool { return req.EntrepreneurID == entrepreneurID }), nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*domain.Request, error) {
	return r.filter(func(*domain.Request) bool { return true }), nil
}

func (r *MemoryRepository) filter(keep func(*domain.Request) bool) []*domain.Request {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Request
	for _, id := range r.order {
		if req := r.byID[id]; keep(req) {
			out = append(out, req.Clone())
		}
	}
	return out
}
