package viewcache

import (
	"sync"

	"github.com/GoPowerDNS-Admin/itsm-authz/internal/session"
)

type attached struct {
	cache  *Cache
	detach func()
}

// Registry keeps one Cache per session id.
type Registry struct {
	mu     sync.Mutex
	caches map[string]attached
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{caches: make(map[string]attached)}
}

// Hook attaches a fresh cache to the store of id, replacing any earlier one.
// It matches the signature of session.WithStoreHook.
func (r *Registry) Hook(id string, store *session.Store) {
	c := New()
	detach := c.Attach(store)

	r.mu.Lock()
	old, ok := r.caches[id]
	r.caches[id] = attached{cache: c, detach: detach}
	r.mu.Unlock()

	if ok {
		old.detach()
	}
}

// For returns the cache of id, nil if none is attached.
func (r *Registry) For(id string) *Cache {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.caches[id].cache
}

// Drop detaches and forgets the cache of id.
func (r *Registry) Drop(id string) {
	r.mu.Lock()
	a, ok := r.caches[id]
	delete(r.caches, id)
	r.mu.Unlock()

	if ok {
		a.detach()
	}
}

// Len is the number of attached caches.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.caches)
}
