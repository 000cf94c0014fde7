package service

import (
	"context"
	"errors"

	"business-nexus/backend/internal/session/domain"
)

// ErrNoClient is returned by Acquire when the request carries no client.
var ErrNoClient = errors.New("no client bound to the request")

type clientKey struct{}

type clientBinding struct {
	manager  *Manager
	registry *Registry
	clientID string
}

// NewContext returns ctx bound directly to m.
func NewContext(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, clientKey{}, clientBinding{manager: m})
}

// WithRegistry returns ctx bound to clientID. The client's Manager is resolved from
// registry only when a handler asks for it.
func WithRegistry(ctx context.Context, registry *Registry, clientID string) context.Context {
	return context.WithValue(ctx, clientKey{}, clientBinding{registry: registry, clientID: clientID})
}

// FromContext returns the client's existing Manager, or nil when the client has no
// live or restorable session.
func FromContext(ctx context.Context) (*Manager, error) {
	b, ok := ctx.Value(clientKey{}).(clientBinding)
	switch {
	case !ok:
		return nil, nil
	case b.manager != nil:
		return b.manager, nil
	case b.registry == nil:
		return nil, nil
	}
	return b.registry.Lookup(ctx, b.clientID)
}

// Acquire returns the client's Manager, creating it if needed. Used by operations that
// may start a session, such as login and register.
func Acquire(ctx context.Context) (*Manager, error) {
	b, ok := ctx.Value(clientKey{}).(clientBinding)
	switch {
	case !ok:
		return nil, ErrNoClient
	case b.manager != nil:
		return b.manager, nil
	case b.registry == nil:
		return nil, ErrNoClient
	}
	return b.registry.Get(ctx, b.clientID)
}

// CurrentSession returns a copy of the client's session, anonymous when it has none.
func CurrentSession(ctx context.Context) (domain.Session, error) {
	m, err := FromContext(ctx)
	if err != nil || m == nil {
		return domain.Session{}, err
	}
	return m.Current(), nil
}
