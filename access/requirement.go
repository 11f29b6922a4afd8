package access

import (
	"fmt"

	"github.com/infas01/Bookfair-Reservation-Management-System/internal/errors"
	"github.com/infas01/Bookfair-Reservation-Management-System/users"
)

type requirementKind int

const (
	// The zero Requirement asks for authentication.
	kindAuthenticated requirementKind = iota
	kindPublic
	kindRole
)

// Requirement is what a route demands of the session. Build one with
// Public, Authenticated or RequireRole.
type Requirement struct {
	kind requirementKind
	role users.Role
}

// Public is for routes only signed-out visitors may see, such as login.
func Public() Requirement {
	return Requirement{kind: kindPublic}
}

func Authenticated() Requirement {
	return Requirement{kind: kindAuthenticated}
}

// RequireRole admits signed-in holders of role, and ADMIN.
func RequireRole(role users.Role) Requirement {
	return Requirement{kind: kindRole, role: role}
}

func (r Requirement) IsPublic() bool {
	return r.kind == kindPublic
}

// Role returns the required role, empty unless built with RequireRole.
func (r Requirement) Role() users.Role {
	return r.role
}

// Validate rejects role requirements naming an unknown role.
func (r Requirement) Validate() error {
	if r.kind == kindRole && !r.role.Valid() {
		return errors.Wrapf(errors.ErrInvalidRequirement, "[Requirement Validate] role %q", r.role)
	}
	return nil
}

func (r Requirement) String() string {
	switch r.kind {
	case kindPublic:
		return "public"
	case kindRole:
		return fmt.Sprintf("role(%s)", r.role)
	}
	return "authenticated"
}
