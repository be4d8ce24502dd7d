// Package roles exposes the static role-permission table.
package roles

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/GoPowerDNS-Admin/itsm-authz/internal/auth"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/config"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/web/handler"
)

// Path is the roles resource.
const Path = handler.APIPath + "/roles"

// Role is one row of the table.
type Role struct {
	Name        auth.Role `json:"name"`
	Permissions []string  `json:"permissions"`
}

// Service is the roles handler service.
type Service struct {
	handler.Service
	cfg *config.Config
}

// Handler is the roles handler.
var Handler = Service{}

// Init initializes the roles handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if app == nil || cfg == nil || deps == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg

	router := app.Group(Path, auth.RequirePermission(auth.ResourceRole, auth.ActionRead))
	router.Get(handler.RootPath, s.List)
	router.Get("/:role", s.Get)

	return nil
}

// List returns every role with its grants, highest role first.
func (s *Service) List(c fiber.Ctx) error {
	out := make([]Role, 0, len(auth.Roles()))
	for _, r := range auth.Roles() {
		out = append(out, row(r))
	}

	return c.JSON(out)
}

// Get returns one role.
func (s *Service) Get(c fiber.Ctx) error {
	r, err := auth.ParseRole(c.Params("role"))
	if err != nil {
		return handler.Error(c, fiber.StatusNotFound, err)
	}

	return c.JSON(row(r))
}

func row(r auth.Role) Role {
	return Role{Name: r, Permissions: auth.RolePermissions(r).Strings()}
}
