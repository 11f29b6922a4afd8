package token

import (
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/infas01/Bookfair-Reservation-Management-System/internal/errors"
	"github.com/infas01/Bookfair-Reservation-Management-System/internal/utils"
	"github.com/infas01/Bookfair-Reservation-Management-System/users"
)

// ErrInvalidToken is returned by Inspect for anything that is not a JWT.
var ErrInvalidToken = errors.ErrInvalidToken

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Claims is the subset of access token claims the portal reads. The portal
// cannot verify signatures; claims are hints for expiry and identity
// fallbacks, never for authorization decisions on the backend's behalf.
type Claims struct {
	Subject   string
	Email     string
	Name      string
	Role      users.Role // empty when the token carries no recognised role
	IssuedAt  time.Time
	ExpiresAt time.Time // zero when the token carries no exp claim
}

// Expired reports whether the exp claim is in the past. Tokens without an
// expiry never report expired.
func (c Claims) Expired() bool {
	return !c.ExpiresAt.IsZero() && !NowTimeFunc().Before(c.ExpiresAt)
}

// Inspect parses a JWT without verifying it. Opaque tokens return an error
// which callers are free to ignore.
func Inspect(raw string) (Claims, error) {
	if strings.TrimSpace(raw) == "" {
		return Claims{}, errors.Wrapf(ErrInvalidToken, "[token Inspect] empty token")
	}

	parsed, _, err := jwtlib.NewParser().ParseUnverified(raw, jwtlib.MapClaims{})
	if err != nil {
		return Claims{}, fmt.Errorf("[token Inspect] %w: %w", ErrInvalidToken, err)
	}

	mapClaims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return Claims{}, errors.Wrapf(ErrInvalidToken, "[token Inspect] unexpected claims type")
	}
	return FromMapClaims(mapClaims), nil
}

// FromMapClaims maps registered and portal claims. The role may arrive as
// "role" or as the first recognised entry of "roles".
func FromMapClaims(mapClaims jwtlib.MapClaims) Claims {
	c := Claims{}
	c.Subject, _ = mapClaims["sub"].(string)
	c.Email, _ = mapClaims["email"].(string)
	c.Name, _ = mapClaims["name"].(string)

	if c.Email == "" && strings.Contains(c.Subject, "@") {
		c.Email = c.Subject
	}

	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}

	candidates := make([]string, 0)
	if r, ok := mapClaims["role"].(string); ok {
		candidates = append(candidates, r)
	}
	if rs, ok := mapClaims["roles"].([]any); ok {
		candidates = append(candidates, utils.ToStringSlice(rs)...)
	}
	for _, candidate := range candidates {
		if role, err := users.ParseRole(candidate); err == nil {
			c.Role = role
			break
		}
	}
	return c
}

// ExpiresAt returns the exp claim of raw, or the zero time when the token is
// opaque or carries no expiry.
func ExpiresAt(raw string) time.Time {
	c, err := Inspect(raw)
	if err != nil {
		return time.Time{}
	}
	return c.ExpiresAt
}
