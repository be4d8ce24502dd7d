// Package dashboard provides the dashboard handler summarising what the
// principal of a session may do.
package dashboard

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/GoPowerDNS-Admin/itsm-authz/internal/auth"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/config"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/db/models"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/web/handler"
	authmw "github.com/GoPowerDNS-Admin/itsm-authz/internal/web/middleware/auth"
)

// Path is the path to the dashboard.
const Path = handler.APIPath + "/dashboard"

// Module is one ITSM area the principal can work in.
type Module struct {
	Resource auth.Resource `json:"resource"`
	Actions  []auth.Action `json:"actions"`
}

// Data represents the complete dashboard data.
type Data struct {
	User          *models.User   `json:"user"`
	CurrentTenant *models.Tenant `json:"currentTenant"`
	IsAdmin       bool           `json:"isAdmin"`
	Modules       []Module       `json:"modules"`
}

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg *config.Config
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if app == nil || cfg == nil || deps == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg

	// no role holds a dashboard grant, every signed in principal gets one
	app.Get(Path, auth.RequireAuthenticated(), s.Get)

	return nil
}

// Get returns the dashboard of the principal.
func (s *Service) Get(c fiber.Ctx) error {
	r := auth.ResolverFrom(c)
	state := authmw.StoreFrom(c).Snapshot()

	data := Data{
		User:          state.User,
		CurrentTenant: state.CurrentTenant,
		IsAdmin:       r.IsAdmin(),
		Modules:       []Module{},
	}

	for _, res := range r.Permissions().Resources() {
		data.Modules = append(data.Modules, Module{Resource: res, Actions: r.AvailableActions(res)})
	}

	return c.JSON(data)
}
