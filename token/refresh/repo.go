package refresh

import (
	"time"
)

// StoredRefreshToken is the server-side record behind an opaque refresh token.
type StoredRefreshToken struct {
	Token  string    // The random token string handed to the client
	UserID string    // Owner of the token
	Iat    time.Time // Issued at
}

// Repo manages server-side storage of refresh tokens keyed by the token string.
type Repo interface {
	Upsert(refreshToken *StoredRefreshToken) error
	Delete(token string) error
	Get(token string) (*StoredRefreshToken, error)
	DeleteByUserID(userID string) error
}
