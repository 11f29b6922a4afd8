package sessions

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/infas01/Bookfair-Reservation-Management-System/internal/errors"
	"github.com/infas01/Bookfair-Reservation-Management-System/users"
	"github.com/rs/zerolog/log"
)

var (
	ErrIncompleteSession = errors.ErrIncompleteSession
	ErrNoSession         = errors.ErrNoSession
)

// Store is the single source of truth for the tab's session. It never
// navigates or signs the user out; it only reads and writes state.
type Store struct {
	mu      sync.RWMutex
	storage Storage
}

func NewStore(storage Storage) *Store {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	return &Store{storage: storage}
}

func NewMemoryStore() *Store {
	return NewStore(NewMemoryStorage())
}

// Save writes all three session values or none of them.
func (s *Store) Save(session Session) error {
	if !session.Complete() {
		return ErrIncompleteSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(session)
}

// write must be called with the lock held. A failed write puts back the
// values it replaced, so the store holds the previous session or nothing.
func (s *Store) write(session Session) error {
	userJSON, err := json.Marshal(session.User)
	if err != nil {
		return errors.Wrapf(err, "[Store write] encoding user")
	}

	previous := s.snapshot()
	writes := []struct{ key, value string }{
		{KeyAccessToken, session.AccessToken},
		{KeyRefreshToken, session.RefreshToken},
		{KeyUser, string(userJSON)},
	}
	for i, w := range writes {
		if err := s.storage.SetItem(w.key, w.value); err != nil {
			s.restore(previous[:i])
			return errors.Wrapf(err, "[Store write] writing %s", w.key)
		}
	}
	return nil
}

type item struct {
	key, value string
	present    bool
}

func (s *Store) snapshot() []item {
	keys := []string{KeyAccessToken, KeyRefreshToken, KeyUser}
	items := make([]item, len(keys))
	for i, key := range keys {
		value, ok := s.storage.GetItem(key)
		items[i] = item{key: key, value: value, present: ok}
	}
	return items
}

func (s *Store) restore(items []item) {
	for _, it := range items {
		if !it.present {
			s.storage.RemoveItem(it.key)
			continue
		}
		if err := s.storage.SetItem(it.key, it.value); err != nil {
			log.Warn().Err(err).Str("key", it.key).Msg("Could not restore session value, clearing session")
			s.removeAll()
			return
		}
	}
}

// Get returns the session, or false when any part of it is missing or
// unreadable. It never fails.
func (s *Store) Get() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get()
}

func (s *Store) get() (Session, bool) {
	accessToken, ok := s.storage.GetItem(KeyAccessToken)
	if !ok || strings.TrimSpace(accessToken) == "" {
		return Session{}, false
	}
	refreshToken, ok := s.storage.GetItem(KeyRefreshToken)
	if !ok || strings.TrimSpace(refreshToken) == "" {
		return Session{}, false
	}
	userJSON, ok := s.storage.GetItem(KeyUser)
	if !ok || userJSON == "" {
		return Session{}, false
	}

	var user users.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		log.Warn().Err(err).Msg("Stored session user is unreadable")
		return Session{}, false
	}

	session := Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}
	if !session.Complete() {
		return Session{}, false
	}
	return session, true
}

// Clear removes the session. Clearing an empty store is a no-op.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeAll()
}

func (s *Store) removeAll() {
	s.storage.RemoveItem(KeyAccessToken)
	s.storage.RemoveItem(KeyRefreshToken)
	s.storage.RemoveItem(KeyUser)
}

func (s *Store) IsAuthenticated() bool {
	_, ok := s.Get()
	return ok
}

// HasRole is an exact match on the current identity's role.
func (s *Store) HasRole(role users.Role) bool {
	session, ok := s.Get()
	return ok && session.User.Role == role
}

// AccessToken returns the current access token, or "" without a session.
func (s *Store) AccessToken() string {
	session, ok := s.Get()
	if !ok {
		return ""
	}
	return session.AccessToken
}

// Update applies fn to the current session and saves the result under one
// lock, so readers never observe the intermediate state.
func (s *Store) Update(fn func(Session) (Session, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.get()
	if !ok {
		return ErrNoSession
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	if !next.Complete() {
		return ErrIncompleteSession
	}
	return s.write(next)
}
