package session

// EventKind names the mutation that produced an Event.
type EventKind string

// Event kinds.
const (
	EventLogin          EventKind = "login"
	EventLogout         EventKind = "logout"
	EventTenantSwitched EventKind = "tenant_switched"
	EventTenantCleared  EventKind = "tenant_cleared"
	EventHydrated       EventKind = "hydrated"
)

// Event is delivered to subscribers after a mutation has been applied.
type Event struct {
	Kind     EventKind
	Previous AuthState
	Current  AuthState
}

// TenantChanged reports whether the event moved the session to another tenant.
func (e Event) TenantChanged() bool {
	return e.Previous.TenantID() != e.Current.TenantID()
}
