package auth

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	authz "github.com/GoPowerDNS-Admin/itsm-authz/internal/auth"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/session"
)

const (
	// LocalsStore is the fiber locals key of the request's *session.Store.
	LocalsStore = "session.store"
	// LocalsSessionID is the fiber locals key of the request's session id.
	LocalsSessionID = "session.id"
)

// empty answers for requests without a session.
var empty = authz.NewResolver(authz.StateSource{})

// Config configures the session middleware.
type Config struct {
	// Sessions resolves a cookie value to its Store.
	Sessions *session.Manager
	// CookieName is the name of the session cookie.
	CookieName string
	// SkipPrefixes are paths served without looking at the session.
	SkipPrefixes []string
}

// New returns the session middleware. Every request leaves it with a
// resolver in locals; an unknown or missing session resolves as
// unauthenticated.
func New(cfg Config) fiber.Handler {
	return func(c fiber.Ctx) error {
		if skip(c, cfg.SkipPrefixes) {
			return c.Next()
		}

		c.Locals(authz.LocalsResolver, empty)

		id := c.Cookies(cfg.CookieName)
		if !session.ValidID(id) {
			return c.Next()
		}

		store, err := cfg.Sessions.Get(c.Context(), id)
		if err != nil {
			// the store fails closed, a broken session just looks logged out
			log.Warn().Err(err).Str("path", c.Path()).Msg("session hydration failed")
		}

		if store == nil {
			return c.Next()
		}

		c.Locals(LocalsSessionID, id)
		c.Locals(LocalsStore, store)
		c.Locals(authz.LocalsResolver, authz.NewResolver(store))

		return c.Next()
	}
}

// StoreFrom returns the session store of the request, nil without a session.
func StoreFrom(c fiber.Ctx) *session.Store {
	s, _ := c.Locals(LocalsStore).(*session.Store)

	return s
}

// SessionIDFrom returns the session id of the request, empty without a session.
func SessionIDFrom(c fiber.Ctx) string {
	id, _ := c.Locals(LocalsSessionID).(string)

	return id
}

// Annotate adds the principal and tenant of the request to an access log event.
// Requests without an authenticated session are left alone.
func Annotate(c fiber.Ctx, e *zerolog.Event) {
	store := StoreFrom(c)
	if store == nil {
		return
	}

	st := store.Snapshot()
	if !st.IsAuthenticated || st.User == nil {
		return
	}

	e.Uint64("user_id", st.User.ID).Str("role", st.User.Role)

	if st.CurrentTenant != nil {
		e.Str("tenant", st.CurrentTenant.Code)
	}
}

func skip(c fiber.Ctx, prefixes []string) bool {
	path := strings.ToLower(c.Path())
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}
