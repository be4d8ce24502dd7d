// Package tenant provides the HTTP handlers that switch the active tenant of a session.
package tenant

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/itsm-authz/internal/auth"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/config"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/db/models"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/web/handler"
	authmw "github.com/GoPowerDNS-Admin/itsm-authz/internal/web/middleware/auth"
)

// Path is the tenant resource of a session.
const Path = handler.APIPath + "/session/tenant"

var (
	// ErrInvalidTenant is returned when the submitted tenant cannot be parsed
	// or fails validation.
	ErrInvalidTenant = errors.New("invalid tenant")

	// ErrInternalServerError is returned when the session could not be written.
	ErrInternalServerError = errors.New("internal server error")
)

// Service is the tenant handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	validator *validator.Validate
}

// Handler is the tenant handler.
var Handler = Service{}

// Init initializes the tenant handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if app == nil || cfg == nil || deps == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.validator = validator.New()

	app.Put(Path, auth.RequireAuthenticated(), s.Put)
	app.Delete(Path, auth.RequireAuthenticated(), s.Delete)

	return nil
}

// Put switches the session to the submitted tenant.
func (s *Service) Put(c fiber.Ctx) error {
	in := new(models.Tenant)

	if err := c.Bind().Body(in); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, ErrInvalidTenant)
	}

	if err := s.validator.Struct(in); err != nil {
		log.Debug().Err(err).Msg("tenant body rejected")

		return handler.Error(c, fiber.StatusBadRequest, ErrInvalidTenant)
	}

	if in.IsExpired(time.Now()) {
		return handler.Error(c, fiber.StatusForbidden, handler.ErrTenantExpired)
	}

	store := authmw.StoreFrom(c)
	if err := store.SetCurrentTenant(c.Context(), in); err != nil {
		log.Error().Err(err).Uint64("tenant_id", in.ID).Msg("failed to persist tenant switch")

		return handler.Error(c, fiber.StatusInternalServerError, ErrInternalServerError)
	}

	log.Info().Uint64("tenant_id", in.ID).Str("tenant_code", in.Code).Msg("tenant switched")

	return c.JSON(handler.NewSessionView(store.Snapshot()))
}

// Delete leaves the current tenant.
func (s *Service) Delete(c fiber.Ctx) error {
	store := authmw.StoreFrom(c)
	if err := store.ClearTenant(c.Context()); err != nil {
		log.Error().Err(err).Msg("failed to persist tenant clear")

		return handler.Error(c, fiber.StatusInternalServerError, ErrInternalServerError)
	}

	return c.JSON(handler.NewSessionView(store.Snapshot()))
}
