// Package logout provides the HTTP handler that closes a session.
package logout
