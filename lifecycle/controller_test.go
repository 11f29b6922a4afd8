package lifecycle_test

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/infas01/Bookfair-Reservation-Management-System/access"
	"github.com/infas01/Bookfair-Reservation-Management-System/apiclient"
	"github.com/infas01/Bookfair-Reservation-Management-System/auth"
	"github.com/infas01/Bookfair-Reservation-Management-System/internal/errors"
	"github.com/infas01/Bookfair-Reservation-Management-System/lifecycle"
	"github.com/infas01/Bookfair-Reservation-Management-System/sessions"
	"github.com/infas01/Bookfair-Reservation-Management-System/users"
	"github.com/stretchr/testify/require"
)

// fakeGateway answers from its function fields and counts calls.
type fakeGateway struct {
	login    func(ctx context.Context, email, password string) (sessions.Session, error)
	register func(ctx context.Context, r users.Registration) (sessions.Session, error)
	refresh  func(ctx context.Context, refreshToken string) (auth.Refreshed, error)
	logout   func(ctx context.Context, refreshToken string) error

	refreshes atomic.Int32
	logouts   atomic.Int32
}

func (g *fakeGateway) Login(ctx context.Context, email, password string) (sessions.Session, error) {
	return g.login(ctx, email, password)
}

func (g *fakeGateway) Register(ctx context.Context, r users.Registration) (sessions.Session, error) {
	return g.register(ctx, r)
}

func (g *fakeGateway) Refresh(ctx context.Context, refreshToken string) (auth.Refreshed, error) {
	g.refreshes.Add(1)
	return g.refresh(ctx, refreshToken)
}

func (g *fakeGateway) Logout(ctx context.Context, refreshToken string) error {
	g.logouts.Add(1)
	return g.logout(ctx, refreshToken)
}

type testFixture struct {
	gateway    *fakeGateway
	store      *sessions.Store
	nav        *lifecycle.Recorder
	board      *lifecycle.Board
	controller *lifecycle.Controller
}

func employeeSession() sessions.Session {
	return sessions.Session{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		User:         users.User{ID: "7", Name: "Nimal", Email: "nimal@fair.lk", Role: users.RoleEmployee},
	}
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	gw := &fakeGateway{
		login: func(ctx context.Context, email, password string) (sessions.Session, error) {
			s := employeeSession()
			s.User.Email = email
			if email == "admin@fair.lk" {
				s.User.Role = users.RoleAdmin
			}
			return s, nil
		},
		register: func(ctx context.Context, r users.Registration) (sessions.Session, error) {
			s := employeeSession()
			s.User = users.User{ID: "8", Name: r.Name, Email: r.Email, Role: users.RoleUser}
			return s, nil
		},
		refresh: func(ctx context.Context, refreshToken string) (auth.Refreshed, error) {
			return auth.Refreshed{AccessToken: "access-2"}, nil
		},
		logout: func(ctx context.Context, refreshToken string) error {
			return nil
		},
	}
	f := &testFixture{
		gateway: gw,
		store:   sessions.NewMemoryStore(),
		nav:     &lifecycle.Recorder{},
		board:   lifecycle.NewBoard(time.Minute),
	}
	f.controller = lifecycle.New(gw, f.store, f.nav, f.board, lifecycle.WithLogoutTimeout(100*time.Millisecond))
	return f
}

func (f *testFixture) signIn(t *testing.T) {
	t.Helper()
	require.NoError(t, f.controller.Login(context.Background(), "nimal@fair.lk", "secret"))
}

func (f *testFixture) notice(t *testing.T) lifecycle.Notice {
	t.Helper()
	n, ok := f.board.Current()
	require.True(t, ok, "expected a notice")
	return n
}

func unauthorized() error {
	return &apiclient.RequestError{Kind: apiclient.KindServer, Status: http.StatusUnauthorized, Message: "Unauthorized"}
}

func TestEmployeeLogin(t *testing.T) {
	f := setupTestFixture(t)

	f.signIn(t)

	session, ok := f.store.Get()
	require.True(t, ok)
	require.Equal(t, "access-1", session.AccessToken)
	require.Equal(t, users.RoleEmployee, session.User.Role)
	require.Equal(t, access.RouteHome, f.nav.Last())
	require.Equal(t, lifecycle.NoticeSuccess, f.notice(t).Kind)

	guard := access.NewGuard(f.store)
	require.True(t, guard.Enter(access.RouteHome).Allowed)
	require.False(t, guard.Enter(access.RouteAdminDashboard).Allowed)
}

func TestAdminLoginGoesToDashboard(t *testing.T) {
	f := setupTestFixture(t)
	require.NoError(t, f.controller.Login(context.Background(), "admin@fair.lk", "secret"))
	require.Equal(t, access.RouteAdminDashboard, f.nav.Last())
}

func TestLoginRejectedShowsServiceMessage(t *testing.T) {
	f := setupTestFixture(t)
	f.gateway.login = func(ctx context.Context, email, password string) (sessions.Session, error) {
		return sessions.Session{}, &auth.Error{Op: "login", Message: "Invalid email or password", Kind: auth.ErrInvalidCredentials}
	}

	err := f.controller.Login(context.Background(), "nimal@fair.lk", "wrong")
	require.True(t, errors.Is(err, auth.ErrInvalidCredentials))
	require.False(t, f.store.IsAuthenticated())
	require.Empty(t, f.nav.Last())
	require.Equal(t, lifecycle.Notice{Kind: lifecycle.NoticeError, Message: "Invalid email or password"}, withoutExpiry(f.notice(t)))
}

func TestLoginMalformedShowsGenericMessage(t *testing.T) {
	f := setupTestFixture(t)
	f.gateway.login = func(ctx context.Context, email, password string) (sessions.Session, error) {
		return sessions.Session{}, &auth.Error{Op: "login", Message: "malformed login response: no access token", Kind: auth.ErrMalformedResponse}
	}

	err := f.controller.Login(context.Background(), "nimal@fair.lk", "secret")
	require.True(t, errors.Is(err, auth.ErrMalformedResponse))
	require.Equal(t, lifecycle.MessageLoginFailed, f.notice(t).Message)
	require.False(t, f.store.IsAuthenticated())
}

func TestRegisterSignsIn(t *testing.T) {
	f := setupTestFixture(t)

	err := f.controller.Register(context.Background(), users.Registration{Name: "Vendor", Email: "v@fair.lk", Password: "secret1"})
	require.NoError(t, err)
	session, ok := f.store.Get()
	require.True(t, ok)
	require.Equal(t, "v@fair.lk", session.User.Email)
	require.Equal(t, access.RouteHome, f.nav.Last())
	require.Equal(t, lifecycle.MessageRegisterSuccess, f.notice(t).Message)
}

func TestLogoutWithNetworkDown(t *testing.T) {
	f := setupTestFixture(t)
	f.signIn(t)
	f.gateway.logout = func(ctx context.Context, refreshToken string) error {
		return &apiclient.RequestError{Kind: apiclient.KindUnreachable, Message: apiclient.MessageUnreachable}
	}

	f.controller.Logout(context.Background())

	require.False(t, f.store.IsAuthenticated())
	require.Equal(t, access.RouteLogin, f.nav.Last())
	require.Equal(t, int32(1), f.gateway.logouts.Load())
}

func TestLogoutIsBounded(t *testing.T) {
	f := setupTestFixture(t)
	f.signIn(t)
	var sent string
	f.gateway.logout = func(ctx context.Context, refreshToken string) error {
		sent = refreshToken
		<-ctx.Done()
		return ctx.Err()
	}

	start := time.Now()
	f.controller.Logout(context.Background())

	require.Less(t, time.Since(start), 2*time.Second)
	require.Equal(t, "refresh-1", sent)
	require.False(t, f.store.IsAuthenticated())
}

func TestLogoutWithoutSessionSkipsNetwork(t *testing.T) {
	f := setupTestFixture(t)
	f.controller.Logout(context.Background())
	require.Zero(t, f.gateway.logouts.Load())
	require.Equal(t, access.RouteLogin, f.nav.Last())
}

func TestRefreshWithInvalidToken(t *testing.T) {
	f := setupTestFixture(t)
	f.signIn(t)
	f.gateway.refresh = func(ctx context.Context, refreshToken string) (auth.Refreshed, error) {
		return auth.Refreshed{}, &auth.Error{Op: "refresh", Message: "Invalid refresh token", Kind: auth.ErrInvalidRefreshToken}
	}

	err := f.controller.Refresh(context.Background())

	require.True(t, errors.Is(err, lifecycle.ErrSessionExpired))
	require.False(t, f.store.IsAuthenticated())
	require.Equal(t, access.RouteLogin, f.nav.Last())
	require.Equal(t, lifecycle.MessageSessionExpired, f.notice(t).Message)
}

func TestRefreshKeepsRefreshTokenUnlessRotated(t *testing.T) {
	f := setupTestFixture(t)
	f.signIn(t)

	require.NoError(t, f.controller.Refresh(context.Background()))
	session, _ := f.store.Get()
	require.Equal(t, "access-2", session.AccessToken)
	require.Equal(t, "refresh-1", session.RefreshToken)
	require.Equal(t, "nimal@fair.lk", session.User.Email)

	f.gateway.refresh = func(ctx context.Context, refreshToken string) (auth.Refreshed, error) {
		return auth.Refreshed{AccessToken: "access-3", RefreshToken: "refresh-2"}, nil
	}
	require.NoError(t, f.controller.Refresh(context.Background()))
	session, _ = f.store.Get()
	require.Equal(t, "access-3", session.AccessToken)
	require.Equal(t, "refresh-2", session.RefreshToken)
}

func TestRefreshWithoutSession(t *testing.T) {
	f := setupTestFixture(t)
	err := f.controller.Refresh(context.Background())
	require.True(t, errors.Is(err, lifecycle.ErrSessionExpired))
	require.Zero(t, f.gateway.refreshes.Load())
	require.Equal(t, access.RouteLogin, f.nav.Last())
}

func TestCallRetriesOnceAfterRefresh(t *testing.T) {
	f := setupTestFixture(t)
	f.signIn(t)

	var tokens []string
	err := f.controller.Call(context.Background(), func(ctx context.Context) error {
		tokens = append(tokens, f.store.AccessToken())
		if f.store.AccessToken() == "access-1" {
			return unauthorized()
		}
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, []string{"access-1", "access-2"}, tokens)
	require.Equal(t, int32(1), f.gateway.refreshes.Load())
}

func TestCallStopsAfterSecondUnauthorized(t *testing.T) {
	f := setupTestFixture(t)
	f.signIn(t)

	calls := 0
	err := f.controller.Call(context.Background(), func(ctx context.Context) error {
		calls++
		return unauthorized()
	})

	require.True(t, apiclient.IsUnauthorized(err))
	require.Equal(t, 2, calls)
	require.Equal(t, int32(1), f.gateway.refreshes.Load())
}

func TestCallWithFailedRefresh(t *testing.T) {
	f := setupTestFixture(t)
	f.signIn(t)
	f.gateway.refresh = func(ctx context.Context, refreshToken string) (auth.Refreshed, error) {
		return auth.Refreshed{}, &auth.Error{Op: "refresh", Message: "Invalid refresh token", Kind: auth.ErrInvalidRefreshToken}
	}

	calls := 0
	err := f.controller.Call(context.Background(), func(ctx context.Context) error {
		calls++
		return unauthorized()
	})

	require.True(t, errors.Is(err, lifecycle.ErrSessionExpired))
	require.Equal(t, 1, calls)
	require.False(t, f.store.IsAuthenticated())
	require.Equal(t, access.RouteLogin, f.nav.Last())
	require.Equal(t, lifecycle.MessageSessionExpired, f.notice(t).Message)
}

func TestCallPassesOtherErrorsThrough(t *testing.T) {
	f := setupTestFixture(t)
	f.signIn(t)
	serverErr := &apiclient.RequestError{Kind: apiclient.KindServer, Status: http.StatusInternalServerError, Message: "database down"}

	err := f.controller.Call(context.Background(), func(ctx context.Context) error {
		return serverErr
	})

	require.Equal(t, serverErr, err)
	require.Zero(t, f.gateway.refreshes.Load())
	require.Equal(t, "database down", f.notice(t).Message)
	require.True(t, f.store.IsAuthenticated())
}

func TestCallRefreshesExpiredTokenFirst(t *testing.T) {
	f := setupTestFixture(t)
	expired, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"sub": "nimal@fair.lk",
		"exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	f.gateway.login = func(ctx context.Context, email, password string) (sessions.Session, error) {
		s := employeeSession()
		s.AccessToken = expired
		return s, nil
	}
	f.signIn(t)

	var seen []string
	err = f.controller.Call(context.Background(), func(ctx context.Context) error {
		seen = append(seen, f.store.AccessToken())
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, []string{"access-2"}, seen)
	require.Equal(t, int32(1), f.gateway.refreshes.Load())
}

func TestConcurrentCallsShareOneRefresh(t *testing.T) {
	f := setupTestFixture(t)
	f.signIn(t)
	release := make(chan struct{})
	f.gateway.refresh = func(ctx context.Context, refreshToken string) (auth.Refreshed, error) {
		<-release
		return auth.Refreshed{AccessToken: "access-2"}, nil
	}

	const callers = 5
	var wg sync.WaitGroup
	var failed atomic.Int32
	var rejected atomic.Int32
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := f.controller.Call(context.Background(), func(ctx context.Context) error {
				if f.store.AccessToken() == "access-1" {
					rejected.Add(1)
					return unauthorized()
				}
				return nil
			})
			if err != nil {
				failed.Add(1)
			}
		}()
	}
	require.Eventually(t, func() bool { return rejected.Load() == callers }, 2*time.Second, 5*time.Millisecond)
	close(release)
	wg.Wait()

	require.Zero(t, failed.Load())
	require.Equal(t, int32(1), f.gateway.refreshes.Load())
	require.Equal(t, "access-2", f.store.AccessToken())
}

func TestLateLoginAfterLogoutIsDiscarded(t *testing.T) {
	f := setupTestFixture(t)
	started := make(chan struct{})
	release := make(chan struct{})
	f.gateway.login = func(ctx context.Context, email, password string) (sessions.Session, error) {
		close(started)
		<-release
		return employeeSession(), nil
	}

	done := make(chan error, 1)
	go func() {
		done <- f.controller.Login(context.Background(), "nimal@fair.lk", "secret")
	}()
	<-started
	f.controller.Logout(context.Background())
	close(release)

	require.True(t, errors.Is(<-done, lifecycle.ErrSessionSuperseded))
	require.False(t, f.store.IsAuthenticated())
	require.Equal(t, access.RouteLogin, f.nav.Last())
	require.Equal(t, lifecycle.MessageSessionChanged, f.notice(t).Message)
}

func TestLateRefreshAfterLogoutIsDiscarded(t *testing.T) {
	f := setupTestFixture(t)
	f.signIn(t)
	started := make(chan struct{})
	release := make(chan struct{})
	f.gateway.refresh = func(ctx context.Context, refreshToken string) (auth.Refreshed, error) {
		close(started)
		<-release
		return auth.Refreshed{AccessToken: "access-2"}, nil
	}

	done := make(chan error, 1)
	go func() {
		done <- f.controller.Refresh(context.Background())
	}()
	<-started
	f.controller.Logout(context.Background())
	close(release)

	require.True(t, errors.Is(<-done, lifecycle.ErrSessionSuperseded))
	require.False(t, f.store.IsAuthenticated())
	require.Equal(t, lifecycle.NoticeWarning, f.notice(t).Kind)
	require.Equal(t, lifecycle.MessageSessionChanged, f.notice(t).Message)
}

func TestCancelledRefreshInCallKeepsSession(t *testing.T) {
	f := setupTestFixture(t)
	f.signIn(t)
	f.board.Dismiss()

	ctx, cancel := context.WithCancel(context.Background())
	f.gateway.refresh = func(ctx context.Context, refreshToken string) (auth.Refreshed, error) {
		cancel()
		return auth.Refreshed{}, ctx.Err()
	}

	err := f.controller.Call(ctx, func(ctx context.Context) error { return unauthorized() })
	require.ErrorIs(t, err, context.Canceled)
	require.True(t, f.store.IsAuthenticated())
	require.Equal(t, lifecycle.MessageCancelled, f.notice(t).Message)
}

func TestUpdateProfileKeepsTokens(t *testing.T) {
	f := setupTestFixture(t)
	f.signIn(t)

	err := f.controller.UpdateProfile(users.User{Name: "Nimal Perera", Email: "nimal@fair.lk"})
	require.NoError(t, err)

	session, ok := f.store.Get()
	require.True(t, ok)
	require.Equal(t, "Nimal Perera", session.User.Name)
	require.Equal(t, "7", session.User.ID)
	require.Equal(t, users.RoleEmployee, session.User.Role)
	require.Equal(t, "access-1", session.AccessToken)
	require.Equal(t, "refresh-1", session.RefreshToken)
}

func TestUpdateProfileWithoutSession(t *testing.T) {
	f := setupTestFixture(t)
	err := f.controller.UpdateProfile(users.User{Email: "x@fair.lk", Role: users.RoleUser})
	require.ErrorIs(t, err, sessions.ErrNoSession)
}

func withoutExpiry(n lifecycle.Notice) lifecycle.Notice {
	n.ExpiresAt = time.Time{}
	return n
}
