package storage

import (
	"context"
	"time"

	"github.com/GoPowerDNS-Admin/itsm-authz/internal/session"
)

// FiberDriver is the key/value contract of the gofiber storage drivers.
// Get returns nil without error for a missing key.
type FiberDriver interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
	Delete(key string) error
	Close() error
}

// Fiber adapts a gofiber storage driver (mysql, postgres) to session.Storage.
type Fiber struct {
	driver FiberDriver
	ttl    time.Duration
}

// NewFiber wraps driver, a ttl of 0 keeps entries forever.
func NewFiber(driver FiberDriver, ttl time.Duration) *Fiber {
	return &Fiber{driver: driver, ttl: ttl}
}

// GetItem implements session.Storage.
func (f *Fiber) GetItem(_ context.Context, key string) (string, error) {
	v, err := f.driver.Get(key)
	if err != nil {
		return "", err
	}

	if v == nil {
		return "", session.ErrNotFound
	}

	return string(v), nil
}

// SetItem implements session.Storage.
func (f *Fiber) SetItem(_ context.Context, key, value string) error {
	return f.driver.Set(key, []byte(value), f.ttl)
}

// RemoveItem implements session.Storage.
func (f *Fiber) RemoveItem(_ context.Context, key string) error {
	return f.driver.Delete(key)
}

// Close closes the driver.
func (f *Fiber) Close() error {
	return f.driver.Close()
}
