package lifecycle

import (
	"sync"
	"time"
)

// DefaultNoticeTTL is how long a notice stays visible when no TTL is set.
const DefaultNoticeTTL = 5 * time.Second

// MaxNoticeTTL caps the TTL so every notice eventually dismisses itself.
const MaxNoticeTTL = time.Minute

// NowTimeFunc can be overridden in tests to control time.
var NowTimeFunc = time.Now

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeWarning NoticeKind = "warning"
	NoticeInfo    NoticeKind = "info"
)

type Notice struct {
	Kind      NoticeKind `json:"kind"`
	Message   string     `json:"message"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

// Board holds at most one transient notice. A new notice replaces the old
// one and each dismisses itself after the board's TTL.
type Board struct {
	mu     sync.Mutex
	ttl    time.Duration
	notice *Notice
}

func NewBoard(ttl time.Duration) *Board {
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	if ttl > MaxNoticeTTL {
		ttl = MaxNoticeTTL
	}
	return &Board{ttl: ttl}
}

func (b *Board) Notify(kind NoticeKind, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notice = &Notice{Kind: kind, Message: message, ExpiresAt: NowTimeFunc().Add(b.ttl)}
}

// Current returns the visible notice, if any.
func (b *Board) Current() (Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.notice == nil {
		return Notice{}, false
	}
	if !NowTimeFunc().Before(b.notice.ExpiresAt) {
		b.notice = nil
		return Notice{}, false
	}
	return *b.notice, true
}

func (b *Board) Dismiss() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notice = nil
}
