package refresh

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

var ErrExpired = errors.New("refresh token expired")

// Manager handles refresh token creation and validation
type Manager struct {
	repo   Repo
	expiry time.Duration
}

// NewManager creates a new refresh token manager
func NewManager(repo Repo, expiry time.Duration) *Manager {
	return &Manager{
		repo:   repo,
		expiry: expiry,
	}
}

// Create generates a new refresh token for the user and stores it. A user may
// hold several tokens, one per signed-in tab.
func (m *Manager) Create(userID string) (string, error) {
	tokenStr := uuid.New().String()
	if err := m.repo.Upsert(&StoredRefreshToken{
		Token:  tokenStr,
		UserID: userID,
		Iat:    NowTimeFunc(),
	}); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}
	return tokenStr, nil
}

// Validate returns the stored token if it exists and has not expired.
func (m *Manager) Validate(token string) (*StoredRefreshToken, error) {
	rt, err := m.repo.Get(token)
	if err != nil {
		return nil, err
	}
	if m.IsExpired(rt) {
		_ = m.repo.Delete(token)
		return nil, ErrExpired
	}
	return rt, nil
}

// Rotate replaces token with a fresh one for the same user.
func (m *Manager) Rotate(token string) (string, error) {
	rt, err := m.Validate(token)
	if err != nil {
		return "", err
	}
	if err := m.repo.Delete(token); err != nil {
		return "", fmt.Errorf("failed to delete rotated refresh token: %w", err)
	}
	return m.Create(rt.UserID)
}

// Delete removes a refresh token from storage
func (m *Manager) Delete(token string) error {
	return m.repo.Delete(token)
}

// RevokeUser removes every refresh token the user holds.
func (m *Manager) RevokeUser(userID string) error {
	return m.repo.DeleteByUserID(userID)
}

// IsExpired checks if a refresh token is older than the configured expiry
func (m *Manager) IsExpired(rt *StoredRefreshToken) bool {
	if m.expiry <= 0 {
		return false
	}
	return NowTimeFunc().Sub(rt.Iat) > m.expiry
}
