// Package permissions provides the HTTP handlers that answer authorization
// questions for the principal of a session.
package permissions

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/itsm-authz/internal/auth"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/config"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/web/handler"
)

const (
	// Path is the permissions resource.
	Path = handler.APIPath + "/permissions"

	// CheckPath evaluates a route requirement.
	CheckPath = Path + "/check"

	// ActionsPath lists the actions on one resource.
	ActionsPath = Path + "/actions/:resource"
)

// ErrInvalidFormData is returned when the check body cannot be parsed or fails validation.
var ErrInvalidFormData = errors.New("invalid form data")

// CheckRequest is a route requirement: ALL permissions and ANY of roles.
type CheckRequest struct {
	Permissions []string `json:"permissions" validate:"dive,required"`
	Roles       []string `json:"roles" validate:"dive,required"`
}

// CheckResponse is the outcome of a check.
type CheckResponse struct {
	Allowed bool `json:"allowed"`
}

// Summary lists the role and grants of the principal.
type Summary struct {
	Role        string   `json:"role,omitempty"`
	Permissions []string `json:"permissions"`
	IsAdmin     bool     `json:"isAdmin"`
}

// Actions lists what the principal may do on one resource.
type Actions struct {
	Resource auth.Resource `json:"resource"`
	Actions  []auth.Action `json:"actions"`
	// Batch are the actions the principal may apply to many items at once.
	Batch []auth.Action `json:"batch"`
}

// Service is the permissions handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	validator *validator.Validate
}

// Handler is the permissions handler.
var Handler = Service{}

// Init initializes the permissions handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if app == nil || cfg == nil || deps == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.validator = validator.New()

	router := app.Group(Path, auth.RequireAuthenticated())
	router.Get(handler.RootPath, s.Get)
	router.Post("/check", s.Check)
	router.Get("/actions/:resource", s.Actions)

	return nil
}

// Get returns the role and grants of the principal.
func (s *Service) Get(c fiber.Ctx) error {
	r := auth.ResolverFrom(c)

	out := Summary{
		Permissions: r.Permissions().Strings(),
		IsAdmin:     r.IsAdmin(),
	}

	if roles := r.Roles(); len(roles) > 0 {
		out.Role = string(roles[0])
	}

	return c.JSON(out)
}

// Check evaluates a route requirement against the principal.
func (s *Service) Check(c fiber.Ctx) error {
	in := new(CheckRequest)

	if err := c.Bind().Body(in); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, ErrInvalidFormData)
	}

	if err := s.validator.Struct(in); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, ErrInvalidFormData)
	}

	perms, roles, err := parseRequirement(in)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err)
	}

	allowed := auth.NewGuard(auth.ResolverFrom(c)).Route(perms, roles, func() {
		log.Debug().Strs("permissions", in.Permissions).Strs("roles", in.Roles).Msg("route check denied")
	})

	return c.JSON(CheckResponse{Allowed: allowed})
}

// Actions lists the actions the principal may perform on a resource.
func (s *Service) Actions(c fiber.Ctx) error {
	res, err := auth.ParseResource(c.Params("resource"))
	if err != nil {
		return handler.Error(c, fiber.StatusNotFound, err)
	}

	r := auth.ResolverFrom(c)
	out := Actions{
		Resource: res,
		Actions:  r.AvailableActions(res),
		Batch:    []auth.Action{},
	}

	for _, a := range out.Actions {
		if strings.HasPrefix(string(a), auth.BatchPrefix) {
			continue
		}

		if r.CanBatchOperate(res, a) {
			out.Batch = append(out.Batch, a)
		}
	}

	return c.JSON(out)
}

func parseRequirement(in *CheckRequest) ([]auth.Grant, []auth.Role, error) {
	perms := make([]auth.Grant, 0, len(in.Permissions))

	for _, p := range in.Permissions {
		g, err := auth.ParseGrant(p)
		if err != nil {
			return nil, nil, err
		}

		perms = append(perms, g)
	}

	roles := make([]auth.Role, 0, len(in.Roles))

	for _, name := range in.Roles {
		role, err := auth.ParseRole(name)
		if err != nil {
			return nil, nil, err
		}

		roles = append(roles, role)
	}

	return perms, roles, nil
}
