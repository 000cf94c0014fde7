// Package devotp keeps plain second-factor codes by challenge id so a developer can read
// them back over GET /api/v1/dev/otp/{challengeId}. It is wired only when codes are
// returned to the client, which configuration forbids in production.
package devotp

import (
	"context"
	"sync"
	"time"
)

// Store holds plain codes by challenge id for dev-only retrieval.
type Store interface {
	// Put stores code for challengeID until expiresAt.
	Put(ctx context.Context, challengeID, code string, expiresAt time.Time)
	// Get returns the code for challengeID if present and not expired.
	Get(ctx context.Context, challengeID string) (code string, ok bool)
	// Delete forgets challengeID once the challenge is answered or discarded.
	Delete(ctx context.Context, challengeID string)
}

type entry struct {
	code      string
	expiresAt time.Time
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mu  sync.Mutex
	m   map[string]entry
	now func() time.Time
}

// NewMemoryStore returns an empty store. now defaults to time.Now; pass the session
// manager's clock so both agree on expiry.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &MemoryStore{m: make(map[string]entry), now: now}
}

// Put stores code for challengeID until expiresAt.
func (s *MemoryStore) Put(ctx context.Context, challengeID, code string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[challengeID] = entry{code: code, expiresAt: expiresAt}
}

// Get returns the code for challengeID. Expired entries are removed.
func (s *MemoryStore) Get(ctx context.Context, challengeID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[challengeID]
	if !ok {
		return "", false
	}
	if !e.expiresAt.After(s.now()) {
		delete(s.m, challengeID)
		return "", false
	}
	return e.code, true
}

// Delete removes challengeID.
func (s *MemoryStore) Delete(ctx context.Context, challengeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, challengeID)
}
