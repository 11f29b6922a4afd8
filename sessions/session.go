package sessions

import (
	"strings"
	"time"

	"github.com/infas01/Bookfair-Reservation-Management-System/token"
	"github.com/infas01/Bookfair-Reservation-Management-System/users"
	"golang.org/x/oauth2"
)

// Session is the authenticated state of one tab: two tokens and the
// identity they were issued for.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         users.User
}

// AccessExpiry is the exp claim of the access token. Zero means the token is
// opaque or carries no expiry.
func (s Session) AccessExpiry() time.Time {
	return token.ExpiresAt(s.AccessToken)
}

// Complete reports whether every field an authenticated session needs is
// present. Partial sessions are never treated as authenticated.
func (s Session) Complete() bool {
	return strings.TrimSpace(s.AccessToken) != "" &&
		strings.TrimSpace(s.RefreshToken) != "" &&
		s.User.Complete()
}

// OAuth2Token exposes the token pair in the shape golang.org/x/oauth2 expects.
func (s Session) OAuth2Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: s.RefreshToken,
		Expiry:       s.AccessExpiry(),
	}
}
