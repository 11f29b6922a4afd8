package access

import (
	"path"
	"strings"

	"github.com/infas01/Bookfair-Reservation-Management-System/users"
)

// Portal routes. RouteLogin is the public entry point.
const (
	RouteLogin    = "/login"
	RouteRegister = "/register"

	RouteHome    = "/home"
	RouteProfile = "/profile"

	RouteAdminDashboard        = "/admin/dashboard"
	RouteAdminUsers            = "/admin/users"
	RouteAdminRegisterEmployee = "/admin/register-employee"
)

// Routes maps every portal route to what it takes to enter it.
var Routes = map[string]Requirement{
	RouteLogin:    Public(),
	RouteRegister: Public(),

	RouteHome:    Authenticated(),
	RouteProfile: Authenticated(),

	RouteAdminDashboard:        RequireRole(users.RoleAdmin),
	RouteAdminUsers:            RequireRole(users.RoleAdmin),
	RouteAdminRegisterEmployee: RequireRole(users.RoleAdmin),
}

// Lookup finds the requirement for route, falling back to the closest
// registered parent so /admin/users/7/role inherits /admin/users. Routes
// with no registered ancestor require authentication.
func Lookup(route string) (Requirement, bool) {
	if route == "" {
		route = "/"
	}
	p := path.Clean("/" + strings.TrimPrefix(route, "/"))
	for p != "/" {
		if req, ok := Routes[p]; ok {
			return req, true
		}
		p = path.Dir(p)
	}
	return Authenticated(), false
}

// HomeFor returns the landing route for a signed-in role.
func HomeFor(role users.Role) string {
	if role == users.RoleAdmin {
		return RouteAdminDashboard
	}
	return RouteHome
}
