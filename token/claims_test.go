package token_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/infas01/Bookfair-Reservation-Management-System/token"
	"github.com/infas01/Bookfair-Reservation-Management-System/users"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("unknown-to-the-portal"))
	require.NoError(t, err)
	return raw
}

func TestInspectReadsClaimsWithoutVerification(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := sign(t, jwtlib.MapClaims{
		"sub":  "staff@bookfair.lk",
		"role": "EMPLOYEE",
		"exp":  exp.Unix(),
	})

	c, err := token.Inspect(raw)
	require.NoError(t, err)
	require.Equal(t, "staff@bookfair.lk", c.Subject)
	require.Equal(t, "staff@bookfair.lk", c.Email)
	require.Equal(t, users.RoleEmployee, c.Role)
	require.True(t, exp.Equal(c.ExpiresAt))
	require.False(t, c.Expired())
}

func TestInspectRolesArray(t *testing.T) {
	raw := sign(t, jwtlib.MapClaims{"sub": "u-1", "roles": []any{"ROLE_SUPPORT", "ROLE_ADMIN"}})

	c, err := token.Inspect(raw)
	require.NoError(t, err)
	require.Equal(t, users.RoleAdmin, c.Role)
	require.Empty(t, c.Email)
	require.True(t, c.ExpiresAt.IsZero())
	require.False(t, c.Expired())
}

func TestExpired(t *testing.T) {
	raw := sign(t, jwtlib.MapClaims{"sub": "u-1", "exp": time.Now().Add(-time.Minute).Unix()})

	c, err := token.Inspect(raw)
	require.NoError(t, err)
	require.True(t, c.Expired())
}

func TestInspectOpaqueToken(t *testing.T) {
	_, err := token.Inspect("opaque-token-value")
	require.ErrorIs(t, err, token.ErrInvalidToken)
	_, err = token.Inspect("  ")
	require.Error(t, err)
	require.True(t, token.ExpiresAt("opaque-token-value").IsZero())
}
