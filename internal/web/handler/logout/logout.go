package logout

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/itsm-authz/internal/config"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/session"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/web/handler"
	authmw "github.com/GoPowerDNS-Admin/itsm-authz/internal/web/middleware/auth"
)

// Path is the logout path.
const Path = handler.APIPath + "/session/logout"

// Service is the logout handler service.
type Service struct {
	handler.Service
	cfg  *config.Config
	deps *handler.Deps
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if app == nil || cfg == nil || deps == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.deps = deps

	app.Post(Path, s.Logout)

	return nil
}

// Logout clears the session and its cookie. It succeeds without a session.
func (s *Service) Logout(c fiber.Ctx) error {
	if store := authmw.StoreFrom(c); store != nil {
		if err := store.Logout(c.Context()); err != nil {
			log.Error().Err(err).Msg("failed to delete session")
		}

		s.deps.Sessions.Drop(authmw.SessionIDFrom(c))
	}

	c.Cookie(handler.ExpiredSessionCookie(s.cfg))

	return c.JSON(handler.NewSessionView(session.AuthState{}))
}
