package auth

import "github.com/infas01/Bookfair-Reservation-Management-System/users"

// Identity service endpoints, relative to its base URL.
const (
	PathLogin    = "/api/auth/login"
	PathRegister = "/api/auth/register"
	PathRefresh  = "/api/auth/refresh"
	PathLogout   = "/api/auth/logout"
)

// MinPasswordLength is the shortest password the sign-up forms accept.
const MinPasswordLength = 6

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the self sign-up payload. New accounts always get the
// USER role; the service ignores any role sent here.
type RegisterRequest struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	PhoneNumber  *string `json:"phoneNumber,omitempty"`
	BusinessName *string `json:"businessName,omitempty"`
}

func newRegisterRequest(r users.Registration) RegisterRequest {
	return RegisterRequest{
		Name:         r.Name,
		Email:        r.Email,
		Password:     r.Password,
		PhoneNumber:  r.Phone,
		BusinessName: r.BusinessName,
	}
}

// RefreshRequest is used for both refresh and logout.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}
