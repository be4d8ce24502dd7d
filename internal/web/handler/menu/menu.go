// Package menu serves the navigation tree filtered for the principal of a session.
package menu

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/GoPowerDNS-Admin/itsm-authz/internal/auth"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/config"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/viewcache"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/web/handler"
	authmw "github.com/GoPowerDNS-Admin/itsm-authz/internal/web/middleware/auth"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/web/navigation"
)

const (
	// Path is the navigation resource.
	Path = handler.APIPath + "/navigation"

	// view is the cache key of the filtered menu.
	view = "menu"
)

// Response is the menu and, when a path was asked for, its page context.
type Response struct {
	Menu    []navigation.Route  `json:"menu"`
	Context *navigation.Context `json:"context,omitempty"`
}

// Service is the menu handler service.
type Service struct {
	handler.Service
	cfg    *config.Config
	deps   *handler.Deps
	routes []navigation.Route
}

// Handler is the menu handler.
var Handler = Service{}

// Init initializes the menu handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if app == nil || cfg == nil || deps == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.deps = deps
	s.routes = navigation.DefaultRoutes()

	app.Get(Path, auth.RequireAuthenticated(), s.Get)

	return nil
}

// Get returns the menu of the principal. ?path= adds the breadcrumbs of a page
// the principal may open.
func (s *Service) Get(c fiber.Ctx) error {
	r := auth.ResolverFrom(c)

	out := Response{Menu: s.menu(c, r)}

	if path := c.Query("path"); path != "" {
		if !navigation.AccessibleAt(path, s.routes, r) {
			return handler.Error(c, fiber.StatusForbidden, fiber.ErrForbidden)
		}

		out.Context = navigation.ContextFor(path, s.routes)
	}

	return c.JSON(out)
}

// menu is cached per session until the next session event.
func (s *Service) menu(c fiber.Ctx, r *auth.Resolver) []navigation.Route {
	var vc *viewcache.Cache
	if s.deps.Views != nil {
		vc = s.deps.Views.For(authmw.SessionIDFrom(c))
	}

	if vc == nil {
		return navigation.Menu(s.routes, r)
	}

	// the loader never fails
	v, _ := vc.GetOrLoad(view, func() (any, error) {
		return navigation.Menu(s.routes, r), nil
	})

	return v.([]navigation.Route)
}
