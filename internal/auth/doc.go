// Package auth provides the authorization engine of the application.
//
// Every principal holds exactly one Role. The static role table maps a role
// to a GrantSet of resource:action pairs; unknown roles hold nothing.
//
// # Permission Checking
//
// A Resolver reads the current session state on every call and answers:
//   - HasPermission, AvailableActions, CanBatchOperate
//   - HasRole, HasAnyRole, HasAllRoles, IsAdmin, IsSuperAdmin
//   - CanAccessRoute: ANY of the required roles AND ALL of the required grants
//
// An unauthenticated session holds no role and no grant.
//
// # Guards
//
// A Guard wraps a Resolver into decisions with an optional onDenied callback.
// Guards never panic and never return errors; they count their decisions in
// the authz_guard_decisions_total metric.
//
// # Middleware
//
// Fiber middleware functions protect HTTP routes with the resolver stored in
// the request locals:
//   - RequireAuthenticated
//   - RequirePermission
//   - RequireAnyRole
//   - RequireRoute
//
// Example usage:
//
//	resolver := auth.NewResolver(store)
//	guard := auth.NewGuard(resolver)
//
//	if guard.Operation(auth.ResourceTicket, auth.ActionDelete, nil) {
//	    // delete the ticket
//	}
//
//	app.Get("/api/roles", auth.RequirePermission(auth.ResourceRole, auth.ActionRead), handler)
package auth
