package storage

import (
	"context"

	"github.com/GoPowerDNS-Admin/itsm-authz/internal/session"
)

// Separator between namespace and key.
const Separator = ":"

// Prefixed namespaces every key of an underlying storage as <prefix>:<key>.
type Prefixed struct {
	next   session.Storage
	prefix string
}

// NewPrefixed wraps next. An empty prefix passes keys through unchanged.
func NewPrefixed(next session.Storage, prefix string) *Prefixed {
	return &Prefixed{next: next, prefix: prefix}
}

func (p *Prefixed) key(k string) string {
	if p.prefix == "" {
		return k
	}

	return p.prefix + Separator + k
}

// GetItem implements session.Storage.
func (p *Prefixed) GetItem(ctx context.Context, key string) (string, error) {
	return p.next.GetItem(ctx, p.key(key))
}

// SetItem implements session.Storage.
func (p *Prefixed) SetItem(ctx context.Context, key, value string) error {
	return p.next.SetItem(ctx, p.key(key), value)
}

// RemoveItem implements session.Storage.
func (p *Prefixed) RemoveItem(ctx context.Context, key string) error {
	return p.next.RemoveItem(ctx, p.key(key))
}
