// Package auth provides the session middleware of the web application.
//
// The middleware reads the session cookie, looks up the matching
// session.Store through the session.Manager and stores it in fiber.Locals
// together with an authorization resolver for the handlers and the
// permission middleware of the internal/auth package.
//
// The middleware performs the following tasks:
//   - Resolves the session cookie to a hydrated store
//   - Adds the store, its id and a resolver to fiber.Locals
//   - Treats missing or broken sessions as unauthenticated
//
// Usage:
//
//	app.Use(authmiddleware.New(authmiddleware.Config{Sessions: manager, CookieName: "session"}))
package auth
