package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/GoPowerDNS-Admin/itsm-authz/internal/session"
)

// Memory keeps items in a map. It is the default backend and used in tests.
type Memory struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemory creates an empty Memory storage.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]string)}
}

// GetItem implements session.Storage.
func (m *Memory) GetItem(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.items[key]
	if !ok {
		return "", session.ErrNotFound
	}

	return v, nil
}

// SetItem implements session.Storage.
func (m *Memory) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.items[key] = value
	m.mu.Unlock()

	return nil
}

// RemoveItem implements session.Storage.
func (m *Memory) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()

	return nil
}

// Len is the number of stored items.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.items)
}

// Keys returns the stored keys sorted.
func (m *Memory) Keys() []string {
	m.mu.RLock()
	out := make([]string, 0, len(m.items))

	for k := range m.items {
		out = append(out, k)
	}
	m.mu.RUnlock()

	sort.Strings(out)

	return out
}

// Close implements io.Closer.
func (m *Memory) Close() error {
	return nil
}
