// Package kv is the durable key-value port used for client-local state (the
// signed-in user, the password reset token, confirmed meetings).
package kv

import "context"

// Store is a last-writer-wins key-value store with no versioning.
type Store interface {
	// Get returns the value for key and true, or nil and false if the key is absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Namespace returns a Store that scopes every key under prefix. Each client gets its own namespace in a shared store.
func Namespace(s Store, prefix string) Store {
	return &namespaced{inner: s, prefix: prefix + ":"}
}

type namespaced struct {
	inner  Store
	prefix string
}

func (n *namespaced) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key string, value []byte) error {
	return n.inner.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.prefix+key)
}
