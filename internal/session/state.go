package session

import (
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/db/models"
)

// AuthState is the authentication state of a session.
// The zero value is the empty, unauthenticated state.
type AuthState struct {
	User            *models.User   `json:"user"`
	Token           string         `json:"token"`
	CurrentTenant   *models.Tenant `json:"currentTenant"`
	IsAuthenticated bool           `json:"isAuthenticated"`
}

// Role of the principal, empty when there is none.
func (s AuthState) Role() string {
	if s.User == nil {
		return ""
	}

	return s.User.Role
}

// TenantID of the current tenant, 0 when no tenant is selected.
func (s AuthState) TenantID() uint64 {
	if s.CurrentTenant == nil {
		return 0
	}

	return s.CurrentTenant.ID
}

// Clone returns a deep copy so callers can not reach into the store.
func (s AuthState) Clone() AuthState {
	return AuthState{
		User:            s.User.Clone(),
		Token:           s.Token,
		CurrentTenant:   s.CurrentTenant.Clone(),
		IsAuthenticated: s.IsAuthenticated,
	}
}

func newState(user *models.User, token string, tenant *models.Tenant) AuthState {
	return AuthState{
		User:            user.Clone(),
		Token:           token,
		CurrentTenant:   tenant.Clone(),
		IsAuthenticated: user != nil && token != "",
	}
}
