package auth

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/infas01/Bookfair-Reservation-Management-System/internal/utils"
	"github.com/infas01/Bookfair-Reservation-Management-System/token"
	"github.com/infas01/Bookfair-Reservation-Management-System/users"
)

// AuthResponse is the identity service's answer to login, register and
// refresh. Deployments disagree on field names, so decoding is tolerant.
type AuthResponse struct {
	// AccessToken is the bearer credential for every authorized call.
	// Read from, in order: accessToken, token, access_token, and finally
	// message, which older deployments use to carry the token on login.
	// Example: "eyJhbGciOiJIUzI1NiJ9..."
	AccessToken string

	// RefreshToken mints new access tokens. Read from refreshToken or
	// refresh_token. Empty on refresh means the service did not rotate it.
	RefreshToken string

	// Message is the human-readable status, when it is not the token.
	// Example: "Registration successful"
	Message string

	// User is the identity carried by the response, either nested under
	// "user" or as flat fields (userId, email, name, role). Incomplete
	// identities are filled from the access token's claims.
	User users.User
}

// decodeAuthResponse parses body. It never fails on missing fields; callers
// decide what is required.
func decodeAuthResponse(body []byte) (AuthResponse, error) {
	fields := map[string]any{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return AuthResponse{}, fmt.Errorf("response is not a JSON object: %w", err)
	}

	resp := AuthResponse{
		AccessToken:  utils.FirstNonEmpty(str(fields, "accessToken"), str(fields, "token"), str(fields, "access_token")),
		RefreshToken: utils.FirstNonEmpty(str(fields, "refreshToken"), str(fields, "refresh_token")),
	}

	message := str(fields, "message")
	if resp.AccessToken == "" && looksLikeToken(message) {
		resp.AccessToken = message
	} else {
		resp.Message = message
	}

	identity := fields
	if nested, ok := fields["user"].(map[string]any); ok {
		identity = nested
	}
	resp.User = decodeUser(identity, fields)

	if resp.AccessToken != "" {
		fillFromClaims(&resp.User, resp.AccessToken)
	}
	return resp, nil
}

func decodeUser(identity, outer map[string]any) users.User {
	u := users.User{
		ID:    utils.FirstNonEmpty(utils.IDString(identity["id"]), utils.IDString(identity["userId"]), utils.IDString(outer["userId"])),
		Name:  str(identity, "name"),
		Email: utils.FirstNonEmpty(str(identity, "email"), str(outer, "email")),
	}
	if role, err := users.ParseRole(utils.FirstNonEmpty(str(identity, "role"), str(outer, "role"))); err == nil {
		u.Role = role
	}
	if phone := utils.FirstNonEmpty(str(identity, "phone"), str(identity, "phoneNumber")); phone != "" {
		u.Phone = utils.Ptr(phone)
	}
	if business := str(identity, "businessName"); business != "" {
		u.BusinessName = utils.Ptr(business)
	}
	u.CreatedAt = utils.ParseTimestamp(identity["createdAt"])
	u.UpdatedAt = utils.ParseTimestamp(identity["updatedAt"])
	return u
}

// fillFromClaims completes missing identity fields from the access token.
// Opaque tokens leave the user untouched.
func fillFromClaims(u *users.User, accessToken string) {
	claims, err := token.Inspect(accessToken)
	if err != nil {
		return
	}
	if u.Email == "" {
		u.Email = claims.Email
	}
	if !u.Role.Valid() {
		u.Role = claims.Role
	}
	if u.Name == "" {
		u.Name = claims.Name
	}
}

// looksLikeToken separates a token carried in "message" from a status text:
// tokens are a single word.
func looksLikeToken(s string) bool {
	return s != "" && !strings.ContainsAny(s, " \t\r\n")
}

func str(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return strings.TrimSpace(s)
}
