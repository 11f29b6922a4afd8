package loginsession

import (
	"fmt"
	"sync"
	"time"

	"github.com/infas01/Bookfair-Reservation-Management-System/internal/errors"
)

// NowTimeFunc can be overridden in tests to control time.
var NowTimeFunc = time.Now

// InMemoryTabRepo is an in-memory implementation of Repo
type InMemoryTabRepo struct {
	mu     sync.RWMutex
	tabs   map[string]*Tab
	maxAge time.Duration
}

// NewInMemoryTabRepo creates a repo dropping tabs idle for longer than
// maxAge. A non-positive maxAge keeps tabs forever.
func NewInMemoryTabRepo(maxAge time.Duration) *InMemoryTabRepo {
	return &InMemoryTabRepo{
		tabs:   make(map[string]*Tab),
		maxAge: maxAge,
	}
}

func (r *InMemoryTabRepo) Upsert(tabID string, tab *Tab) error {
	if tabID == "" {
		return fmt.Errorf("tabID is required")
	}
	if tab == nil {
		return fmt.Errorf("tab is required")
	}

	now := NowTimeFunc()
	if tab.CreatedAt.IsZero() {
		tab.CreatedAt = now
	}
	tab.ID = tabID
	tab.LastSeen = now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tabs[tabID] = tab
	return nil
}

func (r *InMemoryTabRepo) Get(tabID string) (*Tab, error) {
	if tabID == "" {
		return nil, fmt.Errorf("tabID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tab, ok := r.tabs[tabID]
	if !ok {
		return nil, errors.ErrSessionNotFound
	}
	now := NowTimeFunc()
	if r.idle(tab, now) {
		delete(r.tabs, tabID)
		return nil, errors.ErrSessionNotFound
	}
	tab.LastSeen = now
	return tab, nil
}

// Delete removes a tab. Deleting an unknown tab is not an error.
func (r *InMemoryTabRepo) Delete(tabID string) error {
	if tabID == "" {
		return fmt.Errorf("tabID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tabs, tabID)
	return nil
}

func (r *InMemoryTabRepo) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := NowTimeFunc()
	removed := 0
	for id, tab := range r.tabs {
		if r.idle(tab, now) {
			delete(r.tabs, id)
			removed++
		}
	}
	return removed
}

func (r *InMemoryTabRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tabs)
}

func (r *InMemoryTabRepo) idle(tab *Tab, now time.Time) bool {
	return r.maxAge > 0 && now.Sub(tab.LastSeen) > r.maxAge
}
