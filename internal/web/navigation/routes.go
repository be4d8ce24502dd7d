package navigation

import (
	"strings"

	"github.com/GoPowerDNS-Admin/itsm-authz/internal/auth"
)

// Route is one node of the application route tree.
type Route struct {
	Path           string       `json:"path"`
	Name           string       `json:"name"`
	Title          string       `json:"title"`
	Icon           string       `json:"icon,omitempty"`
	Permissions    []auth.Grant `json:"permissions,omitempty"`
	Roles          []auth.Role  `json:"roles,omitempty"`
	Hidden         bool         `json:"hidden,omitempty"`
	HideBreadcrumb bool         `json:"hideBreadcrumb,omitempty"`
	KeepAlive      bool         `json:"keepAlive,omitempty"`
	Children       []Route      `json:"children,omitempty"`
}

// Crumb is one element of a breadcrumb trail.
type Crumb struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

func perm(r auth.Resource, a auth.Action) []auth.Grant {
	return []auth.Grant{auth.G(r, a)}
}

// section builds the list, create and detail routes shared by the ITSM modules.
func section(path, name, title, icon string, r auth.Resource, extra ...Route) Route {
	children := []Route{
		{Path: path, Name: name + "-list", Title: title + " list", Permissions: perm(r, auth.ActionRead), KeepAlive: true},
		{Path: path + "/create", Name: name + "-create", Title: "Create " + name, Permissions: perm(r, auth.ActionCreate)},
		{Path: path + "/:id", Name: name + "-detail", Title: title + " details", Permissions: perm(r, auth.ActionRead), Hidden: true},
	}

	return Route{
		Path:        path,
		Name:        name + "s",
		Title:       title,
		Icon:        icon,
		Permissions: perm(r, auth.ActionRead),
		Children:    append(children, extra...),
	}
}

// DefaultRoutes returns a fresh copy of the ITSM route tree.
func DefaultRoutes() []Route {
	admins := []auth.Role{auth.RoleAdmin, auth.RoleSuperAdmin}

	tickets := section("/tickets", "ticket", "Tickets", "Ticket", auth.ResourceTicket,
		Route{
			Path: "/tickets/:id/edit", Name: "ticket-edit", Title: "Edit ticket",
			Permissions: perm(auth.ResourceTicket, auth.ActionUpdate), Hidden: true,
		})

	knowledge := section("/knowledge", "knowledge", "Knowledge base", "BookOpen", auth.ResourceKnowledge)
	knowledge.Name = "knowledge"

	return []Route{
		{Path: "/", Name: "dashboard", Title: "Dashboard", Icon: "LayoutDashboard"},
		tickets,
		section("/incidents", "incident", "Incidents", "AlertTriangle", auth.ResourceIncident),
		section("/problems", "problem", "Problems", "Bug", auth.ResourceProblem),
		section("/changes", "change", "Changes", "GitBranch", auth.ResourceChange),
		knowledge,
		{
			Path: "/cmdb", Name: "cmdb", Title: "Configuration management", Icon: "Database",
			Permissions: perm(auth.ResourceCMDB, auth.ActionRead),
			Children: []Route{
				{Path: "/cmdb/ci", Name: "ci-list", Title: "Configuration items", Permissions: perm(auth.ResourceCMDB, auth.ActionRead), KeepAlive: true},
				{Path: "/cmdb/ci-types", Name: "ci-type-list", Title: "Item types", Permissions: perm(auth.ResourceCMDB, auth.ActionManage)},
				{Path: "/cmdb/relationships", Name: "ci-relationship-list", Title: "Relationships", Permissions: perm(auth.ResourceCMDB, auth.ActionRead)},
			},
		},
		{
			Path: "/reports", Name: "reports", Title: "Reports", Icon: "BarChart3",
			Permissions: perm(auth.ResourceReport, auth.ActionRead),
			Children: []Route{
				{Path: "/reports/dashboard", Name: "report-dashboard", Title: "Report dashboard", Permissions: perm(auth.ResourceReport, auth.ActionRead)},
				{Path: "/reports/tickets", Name: "ticket-reports", Title: "Ticket reports", Permissions: perm(auth.ResourceReport, auth.ActionRead)},
				{Path: "/reports/sla", Name: "sla-reports", Title: "SLA reports", Permissions: perm(auth.ResourceReport, auth.ActionRead)},
			},
		},
		{
			Path: "/admin", Name: "admin", Title: "Administration", Icon: "Settings", Roles: admins,
			Children: []Route{
				{Path: "/admin/users", Name: "user-management", Title: "Users", Permissions: perm(auth.ResourceUser, auth.ActionManage), Roles: admins},
				{Path: "/admin/roles", Name: "role-management", Title: "Roles", Permissions: perm(auth.ResourceRole, auth.ActionManage), Roles: admins},
				{
					Path: "/admin/tenants", Name: "tenant-management", Title: "Tenants",
					Permissions: perm(auth.ResourceTenant, auth.ActionManage), Roles: []auth.Role{auth.RoleSuperAdmin},
				},
				{Path: "/admin/system", Name: "system-settings", Title: "System settings", Permissions: perm(auth.ResourceSystem, auth.ActionManage), Roles: admins},
			},
		},
	}
}

// Accessible reports whether the resolver's principal may open route.
func Accessible(route *Route, r *auth.Resolver) bool {
	return r.CanAccessRoute(route.Permissions, route.Roles)
}

// Filter keeps the accessible routes, filters their children the same way and drops hidden ones.
// The input is not modified.
func Filter(routes []Route, r *auth.Resolver) []Route {
	out := make([]Route, 0, len(routes))

	for i := range routes {
		if !Accessible(&routes[i], r) || routes[i].Hidden {
			continue
		}

		rt := routes[i]
		if rt.Children != nil {
			rt.Children = Filter(rt.Children, r)
		}

		out = append(out, rt)
	}

	return out
}

// Menu is the navigation menu of the principal.
func Menu(routes []Route, r *auth.Resolver) []Route {
	return Filter(routes, r)
}

// FindByName searches the tree depth first.
func FindByName(name string, routes []Route) *Route {
	for i := range routes {
		if routes[i].Name == name {
			return &routes[i]
		}

		if found := FindByName(name, routes[i].Children); found != nil {
			return found
		}
	}

	return nil
}

// FindByPath searches the tree depth first for an exact path.
func FindByPath(path string, routes []Route) *Route {
	for i := range routes {
		if routes[i].Path == path {
			return &routes[i]
		}

		if found := FindByPath(path, routes[i].Children); found != nil {
			return found
		}
	}

	return nil
}

// Flatten lists every route of the tree, parents before their children.
func Flatten(routes []Route) []Route {
	var out []Route

	for _, rt := range routes {
		out = append(out, rt)
		out = append(out, Flatten(rt.Children)...)
	}

	return out
}

// Trail returns the routes from the top level down to the route matching path.
// A parent matches when path lies below it, :param segments match any segment.
// Trail is empty when path lies outside every route.
func Trail(path string, routes []Route) []*Route {
	var trail []*Route

	var walk func(routes []Route) bool

	walk = func(routes []Route) bool {
		for i := range routes {
			rt := &routes[i]

			if matchPath(rt.Path, path) {
				trail = append(trail, rt)

				return true
			}

			if len(rt.Children) == 0 || !below(rt.Path, path) {
				continue
			}

			// a section stays on the trail even when none of its children match
			trail = append(trail, rt)
			walk(rt.Children)

			return true
		}

		return false
	}

	walk(routes)

	return trail
}

// AccessibleAt reports whether the principal may open path: every route on
// its trail must be accessible. Paths outside the tree are open.
func AccessibleAt(path string, routes []Route, r *auth.Resolver) bool {
	for _, rt := range Trail(path, routes) {
		if !Accessible(rt, r) {
			return false
		}
	}

	return true
}

// Breadcrumbs returns the crumbs of the trail of path.
func Breadcrumbs(path string, routes []Route) []Crumb {
	var crumbs []Crumb

	for _, rt := range Trail(path, routes) {
		if !rt.HideBreadcrumb {
			crumbs = append(crumbs, Crumb{Name: rt.Name, Title: rt.Title, Path: rt.Path})
		}
	}

	return crumbs
}

// ContextFor builds the page context of path with its breadcrumbs.
func ContextFor(path string, routes []Route) *Context {
	crumbs := Breadcrumbs(path, routes)
	ctx := NewContext("", "", "")

	for i, c := range crumbs {
		ctx.AddBreadcrumb(c.Title, c.Path, i == len(crumbs)-1)
	}

	if n := len(crumbs); n > 0 {
		ctx.PageTitle = crumbs[n-1].Title
		ctx.ActiveSection = crumbs[0].Name
		ctx.ActivePage = crumbs[n-1].Name
	}

	return ctx
}

// below reports whether path is prefix or lies under it.
func below(prefix, path string) bool {
	if prefix == "/" {
		return strings.HasPrefix(path, "/")
	}

	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// matchPath compares a route pattern with a concrete path.
func matchPath(pattern, path string) bool {
	if pattern == path {
		return true
	}

	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	xs := strings.Split(strings.Trim(path, "/"), "/")

	if len(ps) != len(xs) {
		return false
	}

	for i := range ps {
		if strings.HasPrefix(ps[i], ":") && xs[i] != "" {
			continue
		}

		if ps[i] != xs[i] {
			return false
		}
	}

	return true
}
