package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
)

// ErrEmptySessionID is returned for an empty session id.
var ErrEmptySessionID = errors.New("session id can not be empty")

// Manager keeps one Store per authenticated client session.
type Manager struct {
	mu     sync.Mutex
	stores map[string]*Store

	open    func(id string) Storage
	binder  func(id string) Binder
	opts    []Option
	onStore func(id string, s *Store)
	onDrop  func(id string)
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithBinderFactory gives every new Store its own binder.
func WithBinderFactory(fn func(id string) Binder) ManagerOption {
	return func(m *Manager) {
		m.binder = fn
	}
}

// WithStoreOptions are applied to every Store the manager creates.
func WithStoreOptions(opts ...Option) ManagerOption {
	return func(m *Manager) {
		m.opts = append(m.opts, opts...)
	}
}

// WithStoreHook is called once for every Store the manager keeps.
func WithStoreHook(fn func(id string, s *Store)) ManagerOption {
	return func(m *Manager) {
		m.onStore = fn
	}
}

// WithDropHook is called with the id of every session the manager lets go of,
// both on Drop and when an anonymous Store is not kept.
// It runs under the manager lock and must not call back into the manager.
func WithDropHook(fn func(id string)) ManagerOption {
	return func(m *Manager) {
		m.onDrop = fn
	}
}

// NewManager creates a Manager. open returns the storage namespace of a session id.
func NewManager(open func(id string) Storage, opts ...ManagerOption) *Manager {
	m := &Manager{
		stores: make(map[string]*Store),
		open:   open,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Get returns the Store of id, hydrating it on first use.
// Only stores that hydrate to an authenticated session are kept, so unknown
// ids cost nothing after the request. A store whose hydration failed is
// returned empty and not kept either.
func (m *Manager) Get(ctx context.Context, id string) (*Store, error) {
	return m.get(ctx, id, false)
}

// Open is Get for a session that is about to log in: the store is kept
// whatever state it hydrates to.
func (m *Manager) Open(ctx context.Context, id string) (*Store, error) {
	return m.get(ctx, id, true)
}

func (m *Manager) get(ctx context.Context, id string, keep bool) (*Store, error) {
	if id == "" {
		return nil, ErrEmptySessionID
	}

	m.mu.Lock()
	s, ok := m.stores[id]
	m.mu.Unlock()

	if ok {
		return s, nil
	}

	var b Binder
	if m.binder != nil {
		b = m.binder(id)
	}

	s = New(m.open(id), b, m.opts...)

	// hydration reads the backend, the lock is not held across it
	err := s.Hydrate(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if cached, ok := m.stores[id]; ok {
		return cached, nil
	}

	if err != nil || (!keep && !s.IsAuthenticated()) {
		if m.onDrop != nil {
			m.onDrop(id)
		}

		return s, err
	}

	m.stores[id] = s

	if m.onStore != nil {
		m.onStore(id, s)
	}

	return s, nil
}

// Drop forgets the in-memory Store of id. Persisted entries are kept.
func (m *Manager) Drop(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.stores, id)

	if m.onDrop != nil {
		m.onDrop(id)
	}
}

// Len is the number of live stores.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.stores)
}

const idBytes = 32

// GenerateID generates a new secure random session id.
func GenerateID() (string, error) {
	// 32 bytes = 256 bits
	b := make([]byte, idBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// ValidID reports whether id has the shape of an id made by GenerateID.
func ValidID(id string) bool {
	if len(id) != hex.EncodedLen(idBytes) {
		return false
	}

	_, err := hex.DecodeString(id)

	return err == nil
}
