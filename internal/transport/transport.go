// Package transport binds the session credentials to outgoing HTTP requests.
package transport

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Headers set on every outgoing request.
const (
	HeaderAuthorization = "Authorization"
	HeaderTenantID      = "X-Tenant-ID"
	HeaderTenantCode    = "X-Tenant-Code"
	HeaderRequestID     = "X-Request-Id"
)

// Context is the transport binding of one session.
// It implements session.Binder and session.TenantCodeBinder.
type Context struct {
	mu         sync.RWMutex
	token      string
	tenantID   uint64
	tenantCode string
}

// NewContext creates an empty binding.
func NewContext() *Context {
	return &Context{}
}

// SetToken binds the bearer token, an empty token clears it.
func (c *Context) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// SetTenantID binds the tenant id, 0 clears it.
func (c *Context) SetTenantID(id uint64) {
	c.mu.Lock()
	c.tenantID = id
	c.mu.Unlock()
}

// SetTenantCode binds the tenant code, an empty code clears it.
func (c *Context) SetTenantCode(code string) {
	c.mu.Lock()
	c.tenantCode = code
	c.mu.Unlock()
}

// Token currently bound.
func (c *Context) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.token
}

// TenantID currently bound, 0 if none.
func (c *Context) TenantID() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.tenantID
}

// Headers returns the headers of the current binding. Unbound values are omitted.
func (c *Context) Headers() http.Header {
	c.mu.RLock()
	defer c.mu.RUnlock()

	h := make(http.Header, 3) //nolint:mnd

	if c.token != "" {
		h.Set(HeaderAuthorization, "Bearer "+c.token)
	}

	if c.tenantID != 0 {
		h.Set(HeaderTenantID, strconv.FormatUint(c.tenantID, 10))
	}

	if c.tenantCode != "" {
		h.Set(HeaderTenantCode, c.tenantCode)
	}

	return h
}

// RoundTripper injects the binding of a Context into every request.
type RoundTripper struct {
	Binding *Context
	Next    http.RoundTripper
}

// RoundTrip implements http.RoundTripper. The request is cloned, the caller's copy stays untouched.
// Headers already set by the caller win over the binding.
func (rt *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	next := rt.Next
	if next == nil {
		next = http.DefaultTransport
	}

	out := req.Clone(req.Context())

	for k, vs := range rt.Binding.Headers() {
		if out.Header.Get(k) == "" {
			out.Header[k] = vs
		}
	}

	if out.Header.Get(HeaderRequestID) == "" {
		out.Header.Set(HeaderRequestID, uuid.NewString())
	}

	return next.RoundTrip(out)
}

// NewClient returns an http.Client sending the binding of b with every request.
func NewClient(b *Context, timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &RoundTripper{Binding: b},
	}
}

// NewRequest builds a request bound to ctx. Headers are added by the client transport.
func NewRequest(ctx context.Context, method, url string) (*http.Request, error) {
	return http.NewRequestWithContext(ctx, method, url, http.NoBody)
}
