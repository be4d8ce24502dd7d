package models

import "time"

// TenantType is the commercial plan of a tenant.
type TenantType string

const (
	// TenantTypeTrial is a time limited evaluation tenant.
	TenantTypeTrial TenantType = "trial"
	// TenantTypeStandard is the standard plan.
	TenantTypeStandard TenantType = "standard"
	// TenantTypeProfessional is the professional plan.
	TenantTypeProfessional TenantType = "professional"
	// TenantTypeEnterprise is the enterprise plan.
	TenantTypeEnterprise TenantType = "enterprise"
)

// TenantStatus is the lifecycle status of a tenant.
type TenantStatus string

const (
	// TenantStatusActive marks a tenant in good standing.
	TenantStatusActive TenantStatus = "active"
	// TenantStatusSuspended marks a tenant blocked by an operator.
	TenantStatusSuspended TenantStatus = "suspended"
	// TenantStatusExpired marks a tenant whose subscription ran out.
	TenantStatusExpired TenantStatus = "expired"
	// TenantStatusTrial marks a tenant still in its trial period.
	TenantStatusTrial TenantStatus = "trial"
)

// Tenant represents an isolated customer or organization context.
// A session has at most one active tenant at a time.
type Tenant struct {
	// ID is the numeric tenant identifier sent as X-Tenant-ID.
	ID uint64 `json:"id" validate:"required"`
	// Name is the display name of the tenant.
	Name string `json:"name" validate:"required,max=255"`
	// Code is the short code sent as X-Tenant-Code.
	Code string `json:"code" validate:"required,max=64"`
	// Domain is an optional vanity domain.
	Domain string `json:"domain,omitempty"`
	// Type is the plan of the tenant.
	Type TenantType `json:"type" validate:"required,oneof=trial standard professional enterprise"`
	// Status is the lifecycle status of the tenant.
	Status TenantStatus `json:"status" validate:"required,oneof=active suspended expired trial"`
	// ExpiresAt is the optional expiry of the tenant subscription.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// IsExpired reports whether the tenant expiry lies before now.
// Tenants without expiry never expire.
func (t *Tenant) IsExpired(now time.Time) bool {
	if t == nil || t.ExpiresAt == nil {
		return false
	}

	return t.ExpiresAt.Before(now)
}

// Clone returns a deep copy of the tenant.
func (t *Tenant) Clone() *Tenant {
	if t == nil {
		return nil
	}

	out := *t
	if t.ExpiresAt != nil {
		exp := *t.ExpiresAt
		out.ExpiresAt = &exp
	}

	return &out
}
