// Package access decides who may enter which portal route. Decisions are
// derived from the session on every call and never cached.
package access

import (
	"github.com/infas01/Bookfair-Reservation-Management-System/sessions"
	"github.com/infas01/Bookfair-Reservation-Management-System/users"
)

// SessionReader is the read side of the session store.
type SessionReader interface {
	Get() (sessions.Session, bool)
}

// State is the part of a session access decisions depend on.
type State struct {
	Authenticated bool
	Role          users.Role
}

func StateOf(store SessionReader) State {
	session, ok := store.Get()
	if !ok {
		return State{}
	}
	return State{Authenticated: true, Role: session.User.Role}
}

// Decision is the outcome of a guard check. Redirect is set whenever
// Allowed is false.
type Decision struct {
	Allowed  bool
	Redirect string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(redirect string) Decision {
	return Decision{Redirect: redirect}
}

// Decide applies req to state. Signed-out visitors are sent to login,
// signed-in users leaving a public route go to their home, and a missing
// role lands on RouteHome rather than login.
func Decide(state State, req Requirement) Decision {
	switch req.kind {
	case kindPublic:
		if state.Authenticated {
			return deny(HomeFor(state.Role))
		}
		return allow()
	case kindRole:
		if !state.Authenticated {
			return deny(RouteLogin)
		}
		if !req.role.Valid() || !state.Role.Satisfies(req.role) {
			return deny(RouteHome)
		}
		return allow()
	default:
		if !state.Authenticated {
			return deny(RouteLogin)
		}
		return allow()
	}
}

type Guard struct {
	store SessionReader
}

func NewGuard(store SessionReader) *Guard {
	return &Guard{store: store}
}

// CanEnter reports whether the current session may enter route.
// requiredAuth false means the route is for signed-out visitors only; with
// requiredAuth true an optional role narrows it further.
func (g *Guard) CanEnter(route string, requiredAuth bool, requiredRole ...users.Role) bool {
	req := Public()
	if requiredAuth {
		req = Authenticated()
		if len(requiredRole) > 0 && requiredRole[0] != "" {
			req = RequireRole(requiredRole[0])
		}
	}
	return g.Check(route, req).Allowed
}

// Check decides route against an explicit requirement.
func (g *Guard) Check(route string, req Requirement) Decision {
	return Decide(StateOf(g.store), req)
}

// Enter decides route against the Routes table.
func (g *Guard) Enter(route string) Decision {
	req, _ := Lookup(route)
	return g.Check(route, req)
}
