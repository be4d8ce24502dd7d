package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/itsm-authz/internal/db/models"
)

// Store holds the authentication state of one session.
// It is safe for concurrent use.
type Store struct {
	// writeMu serialises mutations including their persistence.
	writeMu sync.Mutex

	mu       sync.RWMutex
	state    AuthState
	hydrated bool

	storage Storage
	binder  Binder
	keys    Keys

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

// Option configures a Store.
type Option func(*Store)

// WithKeys overrides the durable storage keys. Empty fields keep their default.
func WithKeys(k Keys) Option {
	return func(s *Store) {
		s.keys = k.withDefaults()
	}
}

// New creates a Store on top of storage. The binder may be nil.
func New(storage Storage, binder Binder, opts ...Option) *Store {
	if binder == nil {
		binder = nopBinder{}
	}

	s := &Store{
		storage: storage,
		binder:  binder,
		keys:    DefaultKeys(),
		subs:    make(map[int]func(Event)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Keys used by the store.
func (s *Store) Keys() Keys {
	return s.keys
}

// Snapshot returns a copy of the current state.
// Before Hydrate or a first mutation the empty state is returned.
func (s *Store) Snapshot() AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.hydrated {
		return AuthState{}
	}

	return s.state.Clone()
}

// IsAuthenticated is a shorthand for Snapshot().IsAuthenticated.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.hydrated && s.state.IsAuthenticated
}

// Hydrated reports whether the state has been restored or set.
func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.hydrated
}

// Login replaces the whole state with the given principal, token and optional tenant.
// State and binder are always updated, the returned error reports persistence only.
func (s *Store) Login(ctx context.Context, user *models.User, token string, tenant *models.Tenant) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := newState(user, token, tenant)
	if !next.IsAuthenticated {
		log.Warn().Str("component", "session").Msg("login without principal or token leaves the session unauthenticated")
	}

	s.mu.Lock()
	prev := s.current()
	s.state = next
	s.hydrated = true

	s.binder.SetToken(token)

	switch {
	case tenant != nil:
		s.binder.SetTenantID(tenant.ID)
		bindTenantCode(s.binder, tenant.Code)
	case prev.CurrentTenant != nil:
		s.binder.SetTenantID(0)
		bindTenantCode(s.binder, "")
	}
	s.mu.Unlock()

	err := errors.Join(
		s.storage.SetItem(ctx, s.keys.Token, token),
		s.persistTenant(ctx, next.CurrentTenant),
		s.persistState(ctx, next),
	)

	s.publish(Event{Kind: EventLogin, Previous: prev, Current: next.Clone()})

	return wrapPersist("login", err)
}

// Logout resets the state and removes every persisted session entry.
// Calling it on an empty session is a no-op apart from the storage removal.
func (s *Store) Logout(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	prev := s.current()
	s.state = AuthState{}
	s.hydrated = true

	s.binder.SetToken("")
	s.binder.SetTenantID(0)
	bindTenantCode(s.binder, "")
	s.mu.Unlock()

	err := errors.Join(
		s.storage.RemoveItem(ctx, s.keys.Token),
		s.storage.RemoveItem(ctx, s.keys.TenantID),
		s.storage.RemoveItem(ctx, s.keys.TenantCode),
		s.storage.RemoveItem(ctx, s.keys.State),
	)

	s.publish(Event{Kind: EventLogout, Previous: prev, Current: AuthState{}})

	return wrapPersist("logout", err)
}

// SetCurrentTenant switches the selected tenant, principal and token stay untouched.
// A nil tenant behaves like ClearTenant. Authentication is the caller's concern,
// switching on an unauthenticated session is applied but logged.
func (s *Store) SetCurrentTenant(ctx context.Context, tenant *models.Tenant) error {
	if tenant == nil {
		return s.ClearTenant(ctx)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	prev := s.current()
	next := prev.Clone()
	next.CurrentTenant = tenant.Clone()
	s.state = next
	s.hydrated = true

	s.binder.SetTenantID(tenant.ID)
	bindTenantCode(s.binder, tenant.Code)
	s.mu.Unlock()

	if !prev.IsAuthenticated {
		log.Warn().Str("component", "session").Uint64("tenant", tenant.ID).
			Msg("tenant switched on an unauthenticated session")
	}

	err := errors.Join(
		s.persistTenant(ctx, next.CurrentTenant),
		s.persistState(ctx, next),
	)

	s.publish(Event{Kind: EventTenantSwitched, Previous: prev, Current: next.Clone()})

	return wrapPersist("set tenant", err)
}

// ClearTenant removes the selected tenant.
func (s *Store) ClearTenant(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	prev := s.current()
	next := prev.Clone()
	next.CurrentTenant = nil
	s.state = next
	s.hydrated = true

	s.binder.SetTenantID(0)
	bindTenantCode(s.binder, "")
	s.mu.Unlock()

	err := errors.Join(
		s.persistTenant(ctx, nil),
		s.persistState(ctx, next),
	)

	s.publish(Event{Kind: EventTenantCleared, Previous: prev, Current: next.Clone()})

	return wrapPersist("clear tenant", err)
}

// Hydrate restores the state from storage.
// Anything inconsistent ends in the empty state: a missing or diverging token
// drops the whole session, a diverging tenant id drops the tenant.
// The binder is synchronised with the restored state in every case.
func (s *Store) Hydrate(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next, err := s.load(ctx)
	if err != nil {
		log.Warn().Err(err).Str("component", "session").Msg("session rehydration failed, continuing unauthenticated")

		next = AuthState{}
	}

	s.mu.Lock()
	prev := s.current()
	s.state = next
	s.hydrated = true

	s.binder.SetToken(next.Token)
	s.binder.SetTenantID(next.TenantID())

	code := ""
	if next.CurrentTenant != nil {
		code = next.CurrentTenant.Code
	}

	bindTenantCode(s.binder, code)
	s.mu.Unlock()

	s.publish(Event{Kind: EventHydrated, Previous: prev, Current: next.Clone()})

	return err
}

// Subscribe registers fn for every applied mutation and returns its removal func.
// Listeners run synchronously after the mutation, in the goroutine that made it.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// current returns a copy of the state, the caller holds mu.
func (s *Store) current() AuthState {
	if !s.hydrated {
		return AuthState{}
	}

	return s.state.Clone()
}

func (s *Store) publish(e Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))

	for i := 0; i < s.nextSub; i++ {
		if fn, ok := s.subs[i]; ok {
			fns = append(fns, fn)
		}
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}

func (s *Store) load(ctx context.Context) (AuthState, error) {
	blob, err := s.storage.GetItem(ctx, s.keys.State)
	if errors.Is(err, ErrNotFound) {
		return AuthState{}, nil
	}

	if err != nil {
		return AuthState{}, fmt.Errorf("read %s: %w", s.keys.State, err)
	}

	var persisted AuthState
	if err = json.Unmarshal([]byte(blob), &persisted); err != nil {
		return AuthState{}, fmt.Errorf("decode %s: %w", s.keys.State, err)
	}

	token, err := s.storage.GetItem(ctx, s.keys.Token)
	if errors.Is(err, ErrNotFound) {
		return AuthState{}, nil
	}

	if err != nil {
		return AuthState{}, fmt.Errorf("read %s: %w", s.keys.Token, err)
	}

	if persisted.User == nil || token == "" || token != persisted.Token {
		return AuthState{}, nil
	}

	tenant := persisted.CurrentTenant
	if tenant != nil && !s.tenantMatches(ctx, tenant.ID) {
		tenant = nil
	}

	return newState(persisted.User, token, tenant), nil
}

func (s *Store) tenantMatches(ctx context.Context, id uint64) bool {
	raw, err := s.storage.GetItem(ctx, s.keys.TenantID)
	if err != nil {
		return false
	}

	stored, err := strconv.ParseUint(raw, 10, 64)

	return err == nil && stored == id
}

func (s *Store) persistTenant(ctx context.Context, tenant *models.Tenant) error {
	if tenant == nil {
		return errors.Join(
			s.storage.RemoveItem(ctx, s.keys.TenantID),
			s.storage.RemoveItem(ctx, s.keys.TenantCode),
		)
	}

	return errors.Join(
		s.storage.SetItem(ctx, s.keys.TenantID, strconv.FormatUint(tenant.ID, 10)),
		s.storage.SetItem(ctx, s.keys.TenantCode, tenant.Code),
	)
}

func (s *Store) persistState(ctx context.Context, state AuthState) error {
	blob, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.keys.State, err)
	}

	return s.storage.SetItem(ctx, s.keys.State, string(blob))
}

// ErrPersist wraps every storage failure of a mutation.
var ErrPersist = errors.New("session persistence failed")

func wrapPersist(op string, err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s: %w: %w", op, ErrPersist, err)
}
