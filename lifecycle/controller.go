// Package lifecycle owns every write to the session: sign-in, registration,
// refresh, profile edits and sign-out. It also decides where the user goes
// next and what transient notice they see.
package lifecycle

import (
	"context"
	"sync"
	"time"

	"github.com/infas01/Bookfair-Reservation-Management-System/access"
	"github.com/infas01/Bookfair-Reservation-Management-System/apiclient"
	"github.com/infas01/Bookfair-Reservation-Management-System/auth"
	"github.com/infas01/Bookfair-Reservation-Management-System/internal/errors"
	"github.com/infas01/Bookfair-Reservation-Management-System/sessions"
	"github.com/infas01/Bookfair-Reservation-Management-System/users"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	MessageLoginSuccess    = "Login successful! Redirecting..."
	MessageRegisterSuccess = "Registration successful! Redirecting..."
	MessageLoginFailed     = "Login failed. Please try again."
	MessageRegisterFailed  = "Registration failed. Please try again."
	MessageSessionExpired  = "Your session has expired. Please sign in again."
	MessageLoggedOut       = "You have been signed out."
	MessageSessionChanged  = "Your session changed while the request was in progress. Please try again."
	MessageCancelled       = "The request was cancelled."
	MessageRefreshFailed   = "Could not renew your session. Please try again."
)

// DefaultLogoutTimeout bounds the best-effort revocation call.
const DefaultLogoutTimeout = 3 * time.Second

var (
	// ErrSessionExpired is returned when a session could not be refreshed
	// and was torn down.
	ErrSessionExpired = errors.ErrSessionExpired
	// ErrSessionSuperseded is returned when a result arrived after the
	// session it belonged to was replaced or cleared. Nothing was written.
	ErrSessionSuperseded = errors.ErrSessionSuperseded
)

// Gateway is the identity service as the controller uses it.
type Gateway interface {
	Login(ctx context.Context, email, password string) (sessions.Session, error)
	Register(ctx context.Context, registration users.Registration) (sessions.Session, error)
	Refresh(ctx context.Context, refreshToken string) (auth.Refreshed, error)
	Logout(ctx context.Context, refreshToken string) error
}

type Controller struct {
	gateway Gateway
	store   *sessions.Store
	nav     Navigator
	board   *Board

	logger        zerolog.Logger
	logoutTimeout time.Duration

	// mu guards epoch and orders it with the store writes it protects.
	mu    sync.Mutex
	epoch uint64

	refreshMu sync.Mutex
}

type Option func(*Controller)

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

func WithLogoutTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.logoutTimeout = d
		}
	}
}

func New(gateway Gateway, store *sessions.Store, nav Navigator, board *Board, opts ...Option) *Controller {
	c := &Controller{
		gateway:       gateway,
		store:         store,
		nav:           nav,
		board:         board,
		logger:        log.Logger,
		logoutTimeout: DefaultLogoutTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().Str("component", "lifecycle").Logger()
	return c
}

func (c *Controller) Board() *Board {
	return c.board
}

// Login signs in and sends the user to their home route.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	epoch := c.currentEpoch()
	session, err := c.gateway.Login(ctx, email, password)
	if err != nil {
		c.failed("login", MessageLoginFailed, err)
		return err
	}
	return c.establish(epoch, session, MessageLoginSuccess)
}

// Register creates an account and signs it in.
func (c *Controller) Register(ctx context.Context, registration users.Registration) error {
	epoch := c.currentEpoch()
	session, err := c.gateway.Register(ctx, registration)
	if err != nil {
		c.failed("register", MessageRegisterFailed, err)
		return err
	}
	return c.establish(epoch, session, MessageRegisterSuccess)
}

func (c *Controller) establish(epoch uint64, session sessions.Session, message string) error {
	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		c.logger.Info().Str("email", session.User.Email).Msg("Discarding sign-in that completed after the session changed")
		c.board.Notify(NoticeWarning, MessageSessionChanged)
		return ErrSessionSuperseded
	}
	if err := c.store.Save(session); err != nil {
		c.mu.Unlock()
		c.logger.Err(err).Msg("Failed to save session")
		c.board.Notify(NoticeError, MessageLoginFailed)
		return errors.Wrapf(err, "[Controller establish] saving session")
	}
	c.epoch++
	c.mu.Unlock()

	c.logger.Info().Str("email", session.User.Email).Str("role", session.User.Role.String()).Msg("Signed in")
	c.board.Notify(NoticeSuccess, message)
	c.nav.Navigate(access.HomeFor(session.User.Role))
	return nil
}

// failed notifies the user once. Malformed responses get a generic message
// since their detail means nothing to the user.
func (c *Controller) failed(op, generic string, err error) {
	if errors.Is(err, auth.ErrMalformedResponse) {
		c.logger.Error().Err(err).Str("op", op).Msg("Identity service returned an unusable response")
		c.board.Notify(NoticeError, generic)
		return
	}
	c.logger.Debug().Err(err).Str("op", op).Msg("Request failed")
	c.board.Notify(NoticeError, err.Error())
}

// Logout revokes the refresh token on a best-effort basis, then clears the
// session and sends the user to login whatever the network outcome.
func (c *Controller) Logout(ctx context.Context) {
	c.mu.Lock()
	c.epoch++
	c.mu.Unlock()

	if session, ok := c.store.Get(); ok {
		logoutCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.logoutTimeout)
		if err := c.gateway.Logout(logoutCtx, session.RefreshToken); err != nil {
			c.logger.Warn().Err(err).Str("email", session.User.Email).Msg("Logout request failed, clearing session anyway")
		}
		cancel()
	}

	c.mu.Lock()
	c.store.Clear()
	c.epoch++
	c.mu.Unlock()

	c.board.Notify(NoticeInfo, MessageLoggedOut)
	c.nav.Navigate(access.RouteLogin)
}

// Refresh replaces the access token. When the session cannot be refreshed
// it is torn down and ErrSessionExpired is returned.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.refresh(ctx, c.store.AccessToken())
}

// refresh serialises refreshes. stale is the token the caller saw fail; if
// another caller already replaced it, that token is reused.
func (c *Controller) refresh(ctx context.Context, stale string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	epoch := c.currentEpoch()
	session, ok := c.store.Get()
	if !ok {
		c.expire(epoch, "no session to refresh")
		return ErrSessionExpired
	}
	if stale != "" && session.AccessToken != stale {
		return nil
	}

	refreshed, err := c.gateway.Refresh(ctx, session.RefreshToken)
	if err != nil {
		if ctx.Err() != nil {
			c.board.Notify(NoticeWarning, MessageCancelled)
			return errors.Wrapf(ctx.Err(), "[Controller refresh] cancelled")
		}
		c.logger.Warn().Err(err).Str("email", session.User.Email).Msg("Token refresh failed")
		c.expire(epoch, "refresh rejected")
		return ErrSessionExpired
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		c.logger.Info().Msg("Discarding refresh that completed after the session changed")
		c.board.Notify(NoticeWarning, MessageSessionChanged)
		return ErrSessionSuperseded
	}
	err = c.store.Update(func(current sessions.Session) (sessions.Session, error) {
		current.AccessToken = refreshed.AccessToken
		if refreshed.RefreshToken != "" {
			current.RefreshToken = refreshed.RefreshToken
		}
		if refreshed.User != nil && refreshed.User.ID == current.User.ID {
			current.User = *refreshed.User
		}
		return current, nil
	})
	if err != nil {
		c.logger.Err(err).Msg("Failed to save refreshed session")
		c.board.Notify(NoticeError, MessageRefreshFailed)
		return errors.Wrapf(err, "[Controller refresh] saving refreshed session")
	}
	c.logger.Debug().Str("email", session.User.Email).Msg("Access token refreshed")
	return nil
}

// expire tears the session down unless it has already been replaced.
func (c *Controller) expire(epoch uint64, reason string) {
	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		c.board.Notify(NoticeWarning, MessageSessionChanged)
		return
	}
	c.store.Clear()
	c.epoch++
	c.mu.Unlock()

	c.logger.Info().Str("reason", reason).Msg("Session expired")
	c.board.Notify(NoticeWarning, MessageSessionExpired)
	c.nav.Navigate(access.RouteLogin)
}

// Call runs fn, an authorized request. If it fails as unauthorized the
// session is refreshed and fn runs exactly once more. A token already known
// to be expired is refreshed before the first attempt. Every failure is
// reported on the board once.
func (c *Controller) Call(ctx context.Context, fn func(ctx context.Context) error) error {
	session, ok := c.store.Get()
	if expiry := session.AccessExpiry(); ok && !expiry.IsZero() && !NowTimeFunc().Before(expiry) {
		if err := c.refresh(ctx, session.AccessToken); err != nil {
			return err
		}
	}

	attempted := c.store.AccessToken()
	err := fn(ctx)
	if err == nil {
		return nil
	}
	if !apiclient.IsUnauthorized(err) {
		c.board.Notify(NoticeError, err.Error())
		return err
	}

	if rerr := c.refresh(ctx, attempted); rerr != nil {
		return rerr
	}
	if err = fn(ctx); err != nil {
		c.board.Notify(NoticeError, err.Error())
	}
	return err
}

// UpdateProfile replaces the signed-in identity, keeping the tokens.
func (c *Controller) UpdateProfile(user users.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Update(func(current sessions.Session) (sessions.Session, error) {
		if user.ID == "" {
			user.ID = current.User.ID
		}
		if user.Role == "" {
			user.Role = current.User.Role
		}
		current.User = user
		return current, nil
	})
}

func (c *Controller) currentEpoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}
