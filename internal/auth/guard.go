package auth

import (
	"github.com/rs/zerolog/log"
)

// Guard turns resolver answers into allow/deny decisions.
// A guard never fails: denial is a false result and an optional onDenied call.
type Guard struct {
	resolver *Resolver
}

// NewGuard creates a Guard over resolver.
func NewGuard(resolver *Resolver) *Guard {
	return &Guard{resolver: resolver}
}

// Resolver the guard decides with.
func (g *Guard) Resolver() *Resolver {
	return g.resolver
}

// Route allows when the principal holds ANY of roles and ALL of perms.
func (g *Guard) Route(perms []Grant, roles []Role, onDenied func()) bool {
	allowed := g.resolver.CanAccessRoute(perms, roles)
	if !allowed {
		log.Debug().Str("guard", guardRoute).Interface("permissions", perms).Interface("roles", roles).
			Msg("route access denied")
	}

	return decide(guardRoute, allowed, onDenied)
}

// Operation allows when the principal holds resource:action.
func (g *Guard) Operation(resource Resource, action Action, onDenied func()) bool {
	allowed := g.resolver.HasPermission(resource, action)
	if !allowed {
		log.Debug().Str("guard", guardOperation).Str("resource", string(resource)).Str("action", string(action)).
			Msg("operation denied")
	}

	return decide(guardOperation, allowed, onDenied)
}

// Role allows when the principal holds one of roles. An empty list denies.
func (g *Guard) Role(roles []Role, onDenied func()) bool {
	allowed := g.resolver.HasAnyRole(roles...)
	if !allowed {
		log.Debug().Str("guard", guardRole).Interface("roles", roles).Msg("role denied")
	}

	return decide(guardRole, allowed, onDenied)
}

func decide(guard string, allowed bool, onDenied func()) bool {
	observe(guard, allowed)

	if !allowed && onDenied != nil {
		onDenied()
	}

	return allowed
}
