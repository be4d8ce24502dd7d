package auth

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
)

// LocalsResolver is the fiber locals key holding the request's *Resolver.
const LocalsResolver = "authz.resolver"

// LocalsPermissions is the fiber locals key holding the principal's grants as strings.
const LocalsPermissions = "authz.permissions"

const (
	msgUnauthorized = "Unauthorized"
	msgForbidden    = "Forbidden: You don't have permission to access this resource"
)

// ResolverFrom returns the resolver stored by the session middleware, nil if there is none.
func ResolverFrom(c fiber.Ctx) *Resolver {
	r, _ := c.Locals(LocalsResolver).(*Resolver)

	return r
}

// authenticated returns the request resolver, nil when the session is not authenticated.
func authenticated(c fiber.Ctx) *Resolver {
	r := ResolverFrom(c)
	if r == nil || !r.Authenticated() {
		return nil
	}

	return r
}

func unauthorized(c fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msgUnauthorized})
}

func forbidden(c fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": msgForbidden})
}

// RequireAuthenticated rejects requests without an authenticated session.
func RequireAuthenticated() fiber.Handler {
	return func(c fiber.Ctx) error {
		if authenticated(c) == nil {
			return unauthorized(c)
		}

		return c.Next()
	}
}

// RequirePermission creates Fiber middleware that requires resource:action.
func RequirePermission(resource Resource, action Action) fiber.Handler {
	return func(c fiber.Ctx) error {
		r := authenticated(c)
		if r == nil {
			return unauthorized(c)
		}

		if !NewGuard(r).Operation(resource, action, func() {
			log.Warn().Str("path", c.Path()).Str("permission", G(resource, action).String()).
				Msg("User lacks required permission")
		}) {
			return forbidden(c)
		}

		return c.Next()
	}
}

// RequireAnyRole creates Fiber middleware that requires one of roles.
func RequireAnyRole(roles ...Role) fiber.Handler {
	return func(c fiber.Ctx) error {
		r := authenticated(c)
		if r == nil {
			return unauthorized(c)
		}

		if !NewGuard(r).Role(roles, func() {
			log.Warn().Str("path", c.Path()).Interface("roles", roles).Msg("User lacks required role")
		}) {
			return forbidden(c)
		}

		return c.Next()
	}
}

// RequireRoute creates Fiber middleware that requires ANY of roles and ALL of perms.
func RequireRoute(perms []Grant, roles []Role) fiber.Handler {
	return func(c fiber.Ctx) error {
		r := authenticated(c)
		if r == nil {
			return unauthorized(c)
		}

		if !NewGuard(r).Route(perms, roles, func() {
			log.Warn().Str("path", c.Path()).Interface("permissions", perms).Interface("roles", roles).
				Msg("User lacks required route access")
		}) {
			return forbidden(c)
		}

		return c.Next()
	}
}

// AddPermissionsToLocals adds the principal's grants to fiber.Locals.
func AddPermissionsToLocals() fiber.Handler {
	return func(c fiber.Ctx) error {
		if r := ResolverFrom(c); r != nil {
			c.Locals(LocalsPermissions, r.Permissions().Strings())
		}

		return c.Next()
	}
}
