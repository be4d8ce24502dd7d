// Package session holds the authenticated state of one client session.
//
// A Store owns the principal, the bearer token and the selected tenant. Every
// mutation is applied atomically, pushed to the transport Binder and written
// to durable Storage so a restarted client can Hydrate it again. A Store that
// has not hydrated answers as unauthenticated.
package session
