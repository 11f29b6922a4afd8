package auth

import (
	"fmt"
	"strings"

	"github.com/infas01/Bookfair-Reservation-Management-System/users"
)

// Validator checks form input before it is sent to the identity service.
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateUserCredentials validates login credentials
func (v *Validator) ValidateUserCredentials(email, password string) error {
	if err := v.validateEmail(email); err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("Password is required")
	}
	return nil
}

// ValidateRegistration validates the self sign-up form
func (v *Validator) ValidateRegistration(r users.Registration) error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("Name is required")
	}
	if err := v.validateEmail(r.Email); err != nil {
		return err
	}
	return v.ValidatePassword(r.Password)
}

// ValidatePassword applies the identity service's minimum length.
func (v *Validator) ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("Password is required")
	}
	if len(password) < MinPasswordLength {
		return fmt.Errorf("Password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

func (v *Validator) validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("Email is required")
	}

	// Basic email format validation
	at := strings.LastIndex(email, "@")
	if at < 1 || !strings.Contains(email[at:], ".") {
		return fmt.Errorf("Invalid email format")
	}
	return nil
}
