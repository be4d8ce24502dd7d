package login

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/itsm-authz/internal/config"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/db/models"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/session"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/web/handler"
	authmw "github.com/GoPowerDNS-Admin/itsm-authz/internal/web/middleware/auth"
)

const (
	// Path is the path of the session resource.
	Path = handler.APIPath + "/session"

	// LoginPath is the path that opens a session.
	LoginPath = Path + "/login"
)

// Request is the login body. The principal and token are issued by the
// identity backend; this service only binds them to a session.
type Request struct {
	User   models.User    `json:"user"`
	Token  string         `json:"token" validate:"required"`
	Tenant *models.Tenant `json:"tenant,omitempty"`
}

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	deps      *handler.Deps
	validator *validator.Validate
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if app == nil || cfg == nil || deps == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.deps = deps
	s.validator = validator.New()

	app.Get(Path, s.Get)
	app.Post(LoginPath, s.Post)

	return nil
}

// Get returns the session of the request. Requests without a session get
// the empty state.
func (s *Service) Get(c fiber.Ctx) error {
	var state session.AuthState
	if store := authmw.StoreFrom(c); store != nil {
		state = store.Snapshot()
	}

	return c.JSON(handler.NewSessionView(state))
}

// Post opens a new session for the submitted principal. A session the
// request already carried is logged out first, the new one always gets a
// fresh id.
func (s *Service) Post(c fiber.Ctx) error {
	in := new(Request)

	if err := c.Bind().Body(in); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, ErrInvalidFormData)
	}

	if err := s.validator.Struct(in); err != nil {
		log.Debug().Err(err).Msg("login body rejected")

		return handler.Error(c, fiber.StatusBadRequest, ErrInvalidFormData)
	}

	if in.Tenant.IsExpired(time.Now()) {
		return handler.Error(c, fiber.StatusForbidden, handler.ErrTenantExpired)
	}

	if prev := authmw.StoreFrom(c); prev != nil {
		if err := prev.Logout(c.Context()); err != nil {
			log.Warn().Err(err).Msg("failed to clear previous session")
		}

		s.drop(authmw.SessionIDFrom(c))
	}

	sessionID, err := session.GenerateID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")

		return handler.Error(c, fiber.StatusInternalServerError, ErrInternalServerError)
	}

	store, err := s.deps.Sessions.Open(c.Context(), sessionID)
	if err != nil {
		log.Error().Err(err).Msg("failed to open session")

		return handler.Error(c, fiber.StatusInternalServerError, ErrInternalServerError)
	}

	if err = store.Login(c.Context(), &in.User, in.Token, in.Tenant); err != nil {
		log.Error().Err(err).Uint64("user_id", in.User.ID).Msg("failed to write session")
		s.drop(sessionID)

		return handler.Error(c, fiber.StatusInternalServerError, ErrInternalServerError)
	}

	c.Cookie(handler.SessionCookie(s.cfg, sessionID))

	log.Info().Uint64("user_id", in.User.ID).Str("role", in.User.Role).Msg("session opened")

	return c.JSON(handler.NewSessionView(store.Snapshot()))
}

func (s *Service) drop(id string) {
	if id == "" {
		return
	}

	s.deps.Sessions.Drop(id)
}
