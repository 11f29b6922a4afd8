package users

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/infas01/Bookfair-Reservation-Management-System/internal/errors"
	"github.com/infas01/Bookfair-Reservation-Management-System/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

// Role is the single role carried by a portal identity.
type Role string

const (
	RoleAdmin    Role = "ADMIN"    // Manages user accounts; may enter every area
	RoleEmployee Role = "EMPLOYEE" // Staff member
	RoleUser     Role = "USER"     // Vendor account
)

// ErrInvalidRole is returned by ParseRole for names outside ADMIN, EMPLOYEE
// and USER.
var ErrInvalidRole = errors.ErrInvalidRole

// ParseRole accepts the role names case-insensitively, with or without the
// Spring style "ROLE_" prefix.
func ParseRole(s string) (Role, error) {
	r := Role(strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "ROLE_"))
	if !r.Valid() {
		return "", fmt.Errorf("[users ParseRole] %w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEmployee, RoleUser:
		return true
	}
	return false
}

// Satisfies reports whether a holder of r meets a requirement for required.
// ADMIN satisfies everything; other roles only satisfy themselves.
func (r Role) Satisfies(required Role) bool {
	if !r.Valid() {
		return false
	}
	return r == RoleAdmin || r == required
}

func (r Role) String() string {
	return string(r)
}

// User is the identity held in a session.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name,omitempty"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	Phone        *string   `json:"phone,omitempty"`
	BusinessName *string   `json:"businessName,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty"`
}

// UnmarshalJSON accepts numeric ids, zone-less timestamps and "ROLE_"
// prefixed roles as the identity service sends them.
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	aux := struct {
		*plain
		ID        any    `json:"id"`
		Role      string `json:"role"`
		CreatedAt any    `json:"createdAt"`
		UpdatedAt any    `json:"updatedAt"`
	}{plain: (*plain)(u)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	u.ID = utils.IDString(aux.ID)
	u.Role = Role(aux.Role)
	if role, err := ParseRole(aux.Role); err == nil {
		u.Role = role
	}
	u.CreatedAt = utils.ParseTimestamp(aux.CreatedAt)
	u.UpdatedAt = utils.ParseTimestamp(aux.UpdatedAt)
	return nil
}

// Complete reports whether the identity can back an authenticated session.
func (u User) Complete() bool {
	return strings.TrimSpace(u.Email) != "" && u.Role.Valid()
}

// Registration carries the self sign-up form.
type Registration struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone,omitempty"`
	BusinessName *string `json:"businessName,omitempty"`
	Password     string  `json:"password"`
}

// Account is a stored user with credentials. Only backends hold accounts.
type Account struct {
	User
	PasswordHash string `json:"-"`
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CheckPassword checks a password against the account's hash
func (a *Account) CheckPassword(password string) bool {
	return CheckPasswordHash(password, a.PasswordHash)
}
