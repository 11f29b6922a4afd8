package fakeservices

import (
	"context"
	"net/http"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/infas01/Bookfair-Reservation-Management-System/token"
)

// Verifier checks an access token's signature and expiry.
type Verifier interface {
	Verify(raw string) (jwtlib.MapClaims, error)
}

type contextKey string

const contextKeyClaims contextKey = "claims"

// requireBearer rejects requests without a valid bearer token with 401.
func requireBearer(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized", "message": "Full authentication is required to access this resource"})
				return
			}
			mapClaims, err := verifier.Verify(raw)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized", "message": "Invalid or expired token"})
				return
			}
			ctx := context.WithValue(r.Context(), contextKeyClaims, token.FromMapClaims(mapClaims))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func claimsFrom(ctx context.Context) token.Claims {
	claims, _ := ctx.Value(contextKeyClaims).(token.Claims)
	return claims
}
