package auth

import (
	"github.com/infas01/Bookfair-Reservation-Management-System/internal/errors"
)

var (
	// ErrInvalidCredentials is returned when the identity service rejects a
	// login or registration. The error text is the service's own message.
	ErrInvalidCredentials = errors.ErrInvalidCredentials
	// ErrMalformedResponse is returned for a 2xx answer that does not carry a
	// usable access token, refresh token or identity.
	ErrMalformedResponse = errors.ErrMalformedResponse
	// ErrInvalidRefreshToken is returned when a refresh is rejected.
	ErrInvalidRefreshToken = errors.ErrInvalidRefreshToken
)

// Error is a classified gateway failure. It matches its sentinel with
// errors.Is and the underlying *apiclient.RequestError, if any, with
// errors.As.
type Error struct {
	Op      string
	Message string
	Kind    error
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

func malformed(op, detail string) error {
	return &Error{
		Op:      op,
		Message: "malformed " + op + " response: " + detail,
		Kind:    ErrMalformedResponse,
	}
}
