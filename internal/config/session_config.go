package config

import "time"

type SessionConfig interface {
	GetNoticeTTL() time.Duration
	GetLogoutTimeout() time.Duration
	GetMaxSessionAge() time.Duration
	GetSessionCookieName() string
}

type Session struct {
	src source
}

var _ SessionConfig = Session{}

// GetNoticeTTL is how long a transient notification stays visible.
func (s Session) GetNoticeTTL() time.Duration {
	return s.src.duration("NOTICE_TTL", 5*time.Second)
}

// GetLogoutTimeout bounds the best-effort revocation call made on logout.
func (s Session) GetLogoutTimeout() time.Duration {
	return s.src.duration("LOGOUT_TIMEOUT", 3*time.Second)
}

func (s Session) GetMaxSessionAge() time.Duration {
	return s.src.duration("MAX_SESSION_AGE", 30*time.Minute) // idle tabs are dropped after this
}

func (s Session) GetSessionCookieName() string {
	return s.src.get("SESSION_COOKIE_NAME", "portalTabId")
}
