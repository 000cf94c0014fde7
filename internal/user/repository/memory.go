package repository

import (
	"context"
	"strings"
	"sync"

	"business-nexus/backend/internal/user/domain"
)

// MemoryRepository is an in-memory directory. Records are copied in and out so callers never share state with it.
type MemoryRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*domain.User
}

// NewMemoryRepository returns a directory initialized with a copy of seed.
func NewMemoryRepository(seed []*domain.User) *MemoryRepository {
	r := &MemoryRepository{byID: make(map[string]*domain.User, len(seed))}
	for _, u := range seed {
		if _, dup := r.byID[u.ID]; dup {
			continue
		}
		r.order = append(r.order, u.ID)
		r.byID[u.ID] = u.Clone()
	}
	return r
}

// GetByID returns the user for id, or nil if not found.
func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[id].Clone(), nil
}

// GetByEmail returns the user with the given email, or nil if not found. Emails compare case-insensitively.
func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findEmail(email).Clone(), nil
}

func (r *MemoryRepository) findEmail(email string) *domain.User {
	for _, id := range r.order {
		if u := r.byID[id]; strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

// List returns all users in insertion order.
func (r *MemoryRepository) List(ctx context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.User, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].Clone())
	}
	return out, nil
}

// ListByRole returns the users with role, in insertion order.
func (r *MemoryRepository) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.User
	for _, id := range r.order {
		if u := r.byID[id]; u.Role == role {
			out = append(out, u.Clone())
		}
	}
	return out, nil
}

// Search returns the users matching f, in insertion order.
func (r *MemoryRepository) Search(ctx context.Context, f domain.Filter) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.User
	for _, id := range r.order {
		if u := r.byID[id]; f.Matches(u) {
			out = append(out, u.Clone())
		}
	}
	return out, nil
}

// Count returns the number of users.
func (r *MemoryRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order), nil
}

// Create appends u. Returns ErrDuplicateEmail if the email is taken.
func (r *MemoryRepository) Create(ctx context.Context, u *domain.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findEmail(u.Email) != nil {
		return ErrDuplicateEmail
	}
	r.order = append(r.order, u.ID)
	r.byID[u.ID] = u.Clone()
	return nil
}

// Update replaces the mutable fields of the stored user. No-op if the user does not exist.
func (r *MemoryRepository) Update(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[u.ID]
	if !ok {
		return nil
	}
	if other := r.findEmail(u.Email); other != nil && other.ID != u.ID {
		return ErrDuplicateEmail
	}
	next := u.Clone()
	next.Role = cur.Role
	next.CreatedAt = cur.CreatedAt
	r.byID[u.ID] = next
	return nil
}

// Delete removes the user with id.
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

// MemoryCredentialStore keeps password hashes in memory.
type MemoryCredentialStore struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewMemoryCredentialStore returns an empty credential store.
func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{m: make(map[string]string)}
}

// GetPasswordHash returns the hash for userID, or "" if none is stored.
func (s *MemoryCredentialStore) GetPasswordHash(ctx context.Context, userID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m[userID], nil
}

// SetPasswordHash stores hash for userID, replacing any previous value.
func (s *MemoryCredentialStore) SetPasswordHash(ctx context.Context, userID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[userID] = hash
	return nil
}
