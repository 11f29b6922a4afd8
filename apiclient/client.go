package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	internalerrors "github.com/infas01/Bookfair-Reservation-Management-System/internal/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const (
	DefaultTimeout = 10 * time.Second

	headerRequestID = "X-Request-ID"
	maxErrorBody    = 64 << 10
)

// TokenSource yields the current access token, or "" when there is none.
// *sessions.Store satisfies it.
type TokenSource interface {
	AccessToken() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) AccessToken() string { return f() }

// Request describes one backend call. Paths are relative to the client's
// base URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any

	// Public requests never carry a bearer token.
	Public bool
}

// Client talks to one backend. It attaches the current access token, maps
// every failure to a RequestError, and never retries or caches.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	timeout    time.Duration
	logger     zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each call; zero disables the per-call deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New returns a client bound to baseURL. tokens may be nil for a client that
// only makes public calls.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
		logger:     log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().Str("component", "apiclient").Str("backend", c.baseURL).Logger()
	return c
}

// BaseURL returns the backend address the client is bound to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, out)
}

// Do sends req and decodes a successful JSON response into out, which may be
// nil. A *string out receives the raw body when it is not JSON.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	op := strings.TrimSpace(req.Method + " " + req.Path)

	if err := ctx.Err(); err != nil {
		return localError(op, err)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return localError(op, err)
	}
	requestID := httpReq.Header.Get(headerRequestID)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return c.transportError(ctx, op, requestID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.transportError(ctx, op, requestID, err)
	}

	c.logger.Debug().
		Str("op", op).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Backend call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return &RequestError{
			Message: serverMessage(resp.StatusCode, body),
			Status:  resp.StatusCode,
			Raw:     body,
			Kind:    KindServer,
			Op:      op,
		}
	}

	if err := decode(body, out); err != nil {
		c.logger.Error().Err(err).Str("op", op).Str("request_id", requestID).Msg("Undecodable backend response")
		return &RequestError{
			Message: "Unexpected response from server",
			Status:  resp.StatusCode,
			Raw:     body,
			Kind:    KindServer,
			Op:      op,
			Err:     fmt.Errorf("%w: %v", internalerrors.ErrMalformedResponse, err),
		}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}

	target, err := url.Parse(c.baseURL + "/" + strings.TrimLeft(req.Path, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid request URL: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid request URL %q", target.String())
	}
	if len(req.Query) > 0 {
		q := target.Query()
		for k, vs := range req.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		target.RawQuery = q.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(headerRequestID, uuid.New().String())
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if !req.Public && c.tokens != nil {
		if accessToken := c.tokens.AccessToken(); accessToken != "" {
			(&oauth2.Token{AccessToken: accessToken}).SetAuthHeader(httpReq)
		}
	}
	return httpReq, nil
}

// transportError classifies a failure after the request left the client.
// Caller cancellation is local; everything else, including our own
// deadline, means the backend did not answer.
func (c *Client) transportError(ctx context.Context, op, requestID string, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return localError(op, context.Canceled)
	}

	event := c.logger.Warn().Err(err).Str("op", op).Str("request_id", requestID)
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		event = event.Bool("timeout", true)
	}
	event.Msg("Backend unreachable")

	return &RequestError{
		Message: MessageUnreachable,
		Kind:    KindUnreachable,
		Op:      op,
		Err:     err,
	}
}

func localError(op string, err error) error {
	msg := err.Error()
	if errors.Is(err, context.Canceled) {
		msg = "Request cancelled"
	}
	return &RequestError{
		Message: msg,
		Kind:    KindLocal,
		Op:      op,
		Err:     err,
	}
}

func decode(body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if s, ok := out.(*string); ok {
		if err := json.Unmarshal(body, s); err != nil {
			*s = string(body)
		}
		return nil
	}
	return json.Unmarshal(body, out)
}
