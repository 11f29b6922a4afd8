package lifecycle_test

import (
	"testing"
	"time"

	"github.com/infas01/Bookfair-Reservation-Management-System/lifecycle"
	"github.com/stretchr/testify/require"
)

func TestBoardAutoDismisses(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	lifecycle.NowTimeFunc = func() time.Time { return now }
	t.Cleanup(func() { lifecycle.NowTimeFunc = time.Now })

	board := lifecycle.NewBoard(0)
	board.Notify(lifecycle.NoticeError, "first")
	board.Notify(lifecycle.NoticeSuccess, "second")

	n, ok := board.Current()
	require.True(t, ok)
	require.Equal(t, "second", n.Message)
	require.Equal(t, now.Add(lifecycle.DefaultNoticeTTL), n.ExpiresAt)

	now = now.Add(lifecycle.DefaultNoticeTTL)
	_, ok = board.Current()
	require.False(t, ok)
}

func TestBoardTTLIsBounded(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	lifecycle.NowTimeFunc = func() time.Time { return now }
	t.Cleanup(func() { lifecycle.NowTimeFunc = time.Now })

	board := lifecycle.NewBoard(24 * time.Hour)
	board.Notify(lifecycle.NoticeInfo, "hello")
	n, _ := board.Current()
	require.Equal(t, now.Add(lifecycle.MaxNoticeTTL), n.ExpiresAt)

	board.Dismiss()
	_, ok := board.Current()
	require.False(t, ok)
}

func TestRecorder(t *testing.T) {
	var r lifecycle.Recorder
	require.Empty(t, r.Last())

	r.Navigate("/home")
	r.Navigate("/login")
	require.Equal(t, []string{"/home", "/login"}, r.History())
	require.Equal(t, "/login", r.Take())
	require.Empty(t, r.Last())
}
