// Package viewcache caches per-tenant view data of a session.
//
// Cached data never outlives the tenant it was loaded for: every session
// event empties the whole cache.
package viewcache

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/itsm-authz/internal/session"
)

type entry struct {
	tenantID uint64
	value    any
}

// Cache holds view data keyed by view name.
type Cache struct {
	mu       sync.RWMutex
	tenantID uint64
	entries  map[string]entry
	purges   uint64
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

// Attach subscribes the cache to store and seeds the current tenant.
// The returned func detaches it.
func (c *Cache) Attach(store *session.Store) func() {
	c.mu.Lock()
	c.tenantID = store.Snapshot().TenantID()
	c.mu.Unlock()

	return store.Subscribe(c.handle)
}

func (c *Cache) handle(e session.Event) {
	c.mu.Lock()
	n := len(c.entries)
	c.entries = make(map[string]entry)
	c.tenantID = e.Current.TenantID()
	c.purges++
	c.mu.Unlock()

	log.Debug().Str("event", string(e.Kind)).Int("entries", n).Msg("view cache purged")
}

// Get returns the value of view if it was stored for the current tenant.
func (c *Cache) Get(view string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[view]
	if !ok || e.tenantID != c.tenantID {
		return nil, false
	}

	return e.value, true
}

// Set stores value for view under the current tenant.
func (c *Cache) Set(view string, value any) {
	c.mu.Lock()
	c.entries[view] = entry{tenantID: c.tenantID, value: value}
	c.mu.Unlock()
}

// GetOrLoad returns the cached value of view or stores the result of load.
// A failing load is not cached, neither is a result whose load overlapped a
// purge: it belongs to the tenant that was current when the lookup missed.
func (c *Cache) GetOrLoad(view string, load func() (any, error)) (any, error) {
	c.mu.RLock()
	e, ok := c.entries[view]
	hit := ok && e.tenantID == c.tenantID
	gen := c.purges
	c.mu.RUnlock()

	if hit {
		return e.value, nil
	}

	v, err := load()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.purges == gen {
		c.entries[view] = entry{tenantID: c.tenantID, value: v}
	}
	c.mu.Unlock()

	return v, nil
}

// Len is the number of cached views.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Purges is the number of full invalidations so far.
func (c *Cache) Purges() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.purges
}
