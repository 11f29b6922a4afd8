package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/infas01/Bookfair-Reservation-Management-System/apiclient"
	"github.com/infas01/Bookfair-Reservation-Management-System/sessions"
	"github.com/infas01/Bookfair-Reservation-Management-System/users"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Refreshed is the outcome of a successful refresh.
type Refreshed struct {
	AccessToken string
	// RefreshToken is empty when the service did not rotate it; the caller
	// keeps the one it has.
	RefreshToken string
	// User is set only when the response carried a complete identity.
	User *users.User
}

// Gateway speaks the identity service's authentication protocol. It owns no
// state; the caller decides what to persist.
type Gateway struct {
	client *apiclient.Client
	logger zerolog.Logger
}

type GatewayOption func(*Gateway)

func WithLogger(logger zerolog.Logger) GatewayOption {
	return func(g *Gateway) {
		g.logger = logger
	}
}

// NewGateway wraps a client bound to the identity service. The client's
// token source, if any, is only used for logout.
func NewGateway(client *apiclient.Client, opts ...GatewayOption) *Gateway {
	g := &Gateway{client: client, logger: log.Logger}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With().Str("component", "auth").Logger()
	return g
}

// Login exchanges credentials for a session. It does not store anything.
func (g *Gateway) Login(ctx context.Context, email, password string) (sessions.Session, error) {
	const op = "login"

	body, err := g.post(ctx, op, PathLogin, LoginRequest{Email: email, Password: password}, ErrInvalidCredentials)
	if err != nil {
		return sessions.Session{}, err
	}
	resp, err := decodeAuthResponse(body)
	if err != nil {
		return sessions.Session{}, g.malformed(op, err.Error())
	}
	if resp.User.Email == "" {
		resp.User.Email = email
	}
	return g.session(op, resp)
}

// Register creates a USER account. The identity service may answer a
// registration with a session or only with a confirmation; in the latter
// case Register signs in with the new credentials.
func (g *Gateway) Register(ctx context.Context, registration users.Registration) (sessions.Session, error) {
	const op = "register"

	body, err := g.post(ctx, op, PathRegister, newRegisterRequest(registration), ErrInvalidCredentials)
	if err != nil {
		return sessions.Session{}, err
	}
	resp, err := decodeAuthResponse(body)
	if err != nil {
		return sessions.Session{}, g.malformed(op, err.Error())
	}
	if resp.AccessToken == "" && resp.RefreshToken == "" {
		g.logger.Debug().Str("email", registration.Email).Msg("Registration returned no session, signing in")
		return g.Login(ctx, registration.Email, registration.Password)
	}
	if resp.User.Email == "" {
		resp.User.Email = registration.Email
	}
	if resp.User.Name == "" {
		resp.User.Name = registration.Name
	}
	return g.session(op, resp)
}

// Refresh mints a new access token from a refresh token.
func (g *Gateway) Refresh(ctx context.Context, refreshToken string) (Refreshed, error) {
	const op = "refresh"

	body, err := g.post(ctx, op, PathRefresh, RefreshRequest{RefreshToken: refreshToken}, ErrInvalidRefreshToken)
	if err != nil {
		return Refreshed{}, err
	}
	resp, err := decodeAuthResponse(body)
	if err != nil {
		return Refreshed{}, g.malformed(op, err.Error())
	}
	if resp.AccessToken == "" {
		return Refreshed{}, g.malformed(op, "no access token")
	}

	refreshed := Refreshed{AccessToken: resp.AccessToken}
	if resp.RefreshToken != refreshToken {
		refreshed.RefreshToken = resp.RefreshToken
	}
	if resp.User.Complete() {
		u := resp.User
		refreshed.User = &u
	}
	return refreshed, nil
}

// Logout revokes the refresh token. Failures are returned for logging only;
// callers must tear the session down regardless.
func (g *Gateway) Logout(ctx context.Context, refreshToken string) error {
	err := g.client.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   PathLogout,
		Body:   RefreshRequest{RefreshToken: refreshToken},
	}, nil)
	if err != nil {
		return &Error{Op: "logout", Message: err.Error(), Cause: err}
	}
	return nil
}

// post sends a public request and returns the raw success body. Client
// errors (400, 401, 403, 409) are classified as rejected; anything else is
// returned unchanged.
func (g *Gateway) post(ctx context.Context, op, path string, payload any, rejected error) ([]byte, error) {
	var raw json.RawMessage
	err := g.client.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   payload,
		Public: true,
	}, &raw)
	if err == nil {
		return raw, nil
	}

	if reqErr, ok := apiclient.AsRequestError(err); ok && reqErr.Kind == apiclient.KindServer {
		switch reqErr.Status {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusConflict:
			return nil, &Error{Op: op, Message: reqErr.Message, Kind: rejected, Cause: reqErr}
		}
	}
	return nil, err
}

func (g *Gateway) session(op string, resp AuthResponse) (sessions.Session, error) {
	if resp.AccessToken == "" {
		return sessions.Session{}, g.malformed(op, "no access token")
	}
	if resp.RefreshToken == "" {
		return sessions.Session{}, g.malformed(op, "no refresh token")
	}
	if !resp.User.Complete() {
		return sessions.Session{}, g.malformed(op, "no usable identity")
	}
	return sessions.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User:         resp.User,
	}, nil
}

func (g *Gateway) malformed(op, detail string) error {
	err := malformed(op, detail)
	g.logger.Error().Str("op", op).Msg(err.Error())
	return err
}
