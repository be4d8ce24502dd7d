package auth

import (
	"slices"

	"github.com/GoPowerDNS-Admin/itsm-authz/internal/session"
)

// Source yields the current authentication state.
// *session.Store implements it.
type Source interface {
	Snapshot() session.AuthState
}

// StateSource adapts a fixed AuthState to Source.
type StateSource session.AuthState

// Snapshot implements Source.
func (s StateSource) Snapshot() session.AuthState {
	return session.AuthState(s)
}

// adminManaged resources are open to admins regardless of their grants.
var adminManaged = map[Resource]bool{ //nolint:gochecknoglobals
	ResourceUser:   true,
	ResourceRole:   true,
	ResourceSystem: true,
}

// Resolver answers permission and role questions for the current principal.
// It reads a fresh snapshot on every call and keeps no state of its own.
// An unauthenticated session holds no role and no grant.
type Resolver struct {
	src Source
}

// NewResolver creates a Resolver reading from src.
func NewResolver(src Source) *Resolver {
	return &Resolver{src: src}
}

// role of the current principal, empty when unauthenticated.
func (r *Resolver) role() (Role, bool) {
	return roleOf(r.src.Snapshot())
}

func roleOf(st session.AuthState) (Role, bool) {
	if !st.IsAuthenticated || st.User == nil {
		return "", false
	}

	return Role(st.User.Role), true
}

// Permissions of the current principal.
func (r *Resolver) Permissions() GrantSet {
	role, ok := r.role()
	if !ok {
		return GrantSet{}
	}

	return RolePermissions(role)
}

// Roles held by the current principal. A principal holds exactly one role.
func (r *Resolver) Roles() []Role {
	role, ok := r.role()
	if !ok || role == "" {
		return nil
	}

	return []Role{role}
}

// HasPermission reports whether the principal's role grants resource:action.
func (r *Resolver) HasPermission(resource Resource, action Action) bool {
	return r.Permissions().Has(resource, action)
}

// HasRole reports whether the principal holds role.
func (r *Resolver) HasRole(role Role) bool {
	held, ok := r.role()

	return ok && held == role
}

// HasAnyRole reports whether the principal holds one of roles. False for an empty list.
func (r *Resolver) HasAnyRole(roles ...Role) bool {
	held, ok := r.role()
	if !ok {
		return false
	}

	for _, role := range roles {
		if role == held {
			return true
		}
	}

	return false
}

// HasAllRoles reports whether the principal holds every role in roles.
// With a single role per principal this is only true when every entry names
// that role. An empty list is vacuously true for an authenticated principal.
func (r *Resolver) HasAllRoles(roles ...Role) bool {
	held, ok := r.role()
	if !ok {
		return false
	}

	for _, role := range roles {
		if role != held {
			return false
		}
	}

	return true
}

// CanAccessRoute requires ANY of roles (when given) AND ALL of perms (when given).
// With neither constraint it is true, authentication is the caller's concern.
// Both checks see the same snapshot.
func (r *Resolver) CanAccessRoute(perms []Grant, roles []Role) bool {
	role, ok := roleOf(r.src.Snapshot())

	if len(roles) > 0 && (!ok || !slices.Contains(roles, role)) {
		return false
	}

	if len(perms) == 0 {
		return true
	}

	if !ok {
		return false
	}

	held := RolePermissions(role)
	for _, g := range perms {
		if !held.HasGrant(g) {
			return false
		}
	}

	return true
}

// AvailableActions the principal may perform on resource, sorted.
func (r *Resolver) AvailableActions(resource Resource) []Action {
	return r.Permissions().Actions(resource)
}

// CanBatchOperate requires both action and its batch_<action> counterpart on resource.
func (r *Resolver) CanBatchOperate(resource Resource, action Action) bool {
	held := r.Permissions()

	return held.Has(resource, action) && held.Has(resource, BatchAction(action))
}

// CanOperate is HasPermission widened for user, role and system management,
// which admins may always perform.
func (r *Resolver) CanOperate(resource Resource, action Action) bool {
	if r.HasPermission(resource, action) {
		return true
	}

	return adminManaged[resource] && r.IsAdmin()
}

// IsAdmin reports whether the principal is admin or super_admin.
func (r *Resolver) IsAdmin() bool {
	return r.HasAnyRole(RoleAdmin, RoleSuperAdmin)
}

// IsSuperAdmin reports whether the principal is super_admin.
func (r *Resolver) IsSuperAdmin() bool {
	return r.HasRole(RoleSuperAdmin)
}

// Authenticated reports whether the current session is authenticated.
func (r *Resolver) Authenticated() bool {
	_, ok := r.role()

	return ok
}
