package session

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Storage.GetItem for a missing key.
var ErrNotFound = errors.New("storage item not found")

// Storage is the durable key/value collaborator of a Store.
// RemoveItem of a missing key is not an error.
type Storage interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// Keys names the durable storage entries of a session.
type Keys struct {
	Token      string
	TenantID   string
	TenantCode string
	State      string
}

// DefaultKeys are shared with the web frontend.
func DefaultKeys() Keys {
	return Keys{
		Token:      "access_token",
		TenantID:   "current_tenant_id",
		TenantCode: "current_tenant_code",
		State:      "auth-storage",
	}
}

func (k Keys) withDefaults() Keys {
	d := DefaultKeys()

	if k.Token == "" {
		k.Token = d.Token
	}

	if k.TenantID == "" {
		k.TenantID = d.TenantID
	}

	if k.TenantCode == "" {
		k.TenantCode = d.TenantCode
	}

	if k.State == "" {
		k.State = d.State
	}

	return k
}
