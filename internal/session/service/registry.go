package service

import (
	"container/list"
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"business-nexus/backend/internal/kv"
)

// Registry defaults.
const (
	DefaultIdleTTL     = 30 * time.Minute
	DefaultMaxManagers = 10000
)

// Factory builds the Manager for one client over that client's namespaced store.
type Factory func(clientID string, store kv.Store) *Manager

// Registry keeps one restored Manager per active client id. All managers share the
// directory; each has its own namespace in the shared key-value store. Managers idle
// longer than the idle TTL are dropped, and the least recently used one is dropped
// when the registry is full. A dropped client is restored from its stored record on
// its next request and must verify its second factor again.
type Registry struct {
	store       kv.Store
	factory     Factory
	idleTTL     time.Duration
	maxManagers int
	now         func() time.Time
	flight      singleflight.Group

	mu      sync.Mutex
	entries map[string]*registryEntry
	lru     *list.List
}

type registryEntry struct {
	clientID string
	manager  *Manager
	lastUsed time.Time
	elem     *list.Element
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithIdleTTL sets how long an unused manager is kept. Zero or negative keeps the default.
func WithIdleTTL(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.idleTTL = d
		}
	}
}

// WithMaxManagers caps the number of live managers.
func WithMaxManagers(n int) RegistryOption {
	return func(r *Registry) {
		if n > 0 {
			r.maxManagers = n
		}
	}
}

// WithRegistryClock replaces time.Now. Used by tests.
func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

// NewRegistry returns a Registry creating managers with factory over store.
func NewRegistry(store kv.Store, factory Factory, opts ...RegistryOption) *Registry {
	r := &Registry{
		store:       store,
		factory:     factory,
		idleTTL:     DefaultIdleTTL,
		maxManagers: DefaultMaxManagers,
		now:         func() time.Time { return time.Now().UTC() },
		entries:     make(map[string]*registryEntry),
		lru:         list.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the Manager for clientID, building and restoring it on first use.
// Concurrent first requests for one client share a single restore, which runs
// without holding the registry lock.
func (r *Registry) Get(ctx context.Context, clientID string) (*Manager, error) {
	if m := r.cached(clientID); m != nil {
		return m, nil
	}
	v, err, _ := r.flight.Do(clientID, func() (any, error) {
		if m := r.cached(clientID); m != nil {
			return m, nil
		}
		m := r.factory(clientID, r.namespace(clientID))
		if err := m.Restore(ctx); err != nil {
			return nil, err
		}
		return r.insert(clientID, m), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Manager), nil
}

// Lookup returns the live Manager for clientID, or restores one when the client has a
// stored signed-in user. It returns nil for a client with nothing to restore, so
// anonymous traffic never allocates managers.
func (r *Registry) Lookup(ctx context.Context, clientID string) (*Manager, error) {
	if m := r.cached(clientID); m != nil {
		return m, nil
	}
	_, ok, err := r.namespace(clientID).Get(ctx, UserKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return r.Get(ctx, clientID)
}

// Sweep drops every manager idle for longer than the idle TTL and returns how many
// were dropped.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.expireLocked(r.now())
}

// Run sweeps idle managers every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Len returns the number of live managers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) namespace(clientID string) kv.Store {
	return kv.Namespace(r.store, "client:"+clientID)
}

// cached returns the live manager for clientID and marks it used.
func (r *Registry) cached(clientID string) *Manager {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.expireLocked(now)
	e, ok := r.entries[clientID]
	if !ok {
		return nil
	}
	e.lastUsed = now
	r.lru.MoveToFront(e.elem)
	return e.manager
}

func (r *Registry) insert(clientID string, m *Manager) *Manager {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[clientID]; ok {
		return e.manager
	}
	for len(r.entries) >= r.maxManagers {
		r.removeLocked(r.lru.Back().Value.(*registryEntry))
	}
	e := &registryEntry{clientID: clientID, manager: m, lastUsed: r.now()}
	e.elem = r.lru.PushFront(e)
	r.entries[clientID] = e
	return m
}

// expireLocked removes idle entries from the back of the list, which is ordered by
// last use.
func (r *Registry) expireLocked(now time.Time) int {
	n := 0
	for el := r.lru.Back(); el != nil; el = r.lru.Back() {
		e := el.Value.(*registryEntry)
		if now.Sub(e.lastUsed) < r.idleTTL {
			break
		}
		r.removeLocked(e)
		n++
	}
	return n
}

func (r *Registry) removeLocked(e *registryEntry) {
	r.lru.Remove(e.elem)
	delete(r.entries, e.clientID)
}
