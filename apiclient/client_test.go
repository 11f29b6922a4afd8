package apiclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/infas01/Bookfair-Reservation-Management-System/apiclient"
	"github.com/infas01/Bookfair-Reservation-Management-System/internal/errors"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method        string
	path          string
	query         url.Values
	authorization string
	requestID     string
	body          map[string]any
}

type testFixture struct {
	server *httptest.Server
	mu     sync.Mutex
	rec    *recorded
	token  string
	client *apiclient.Client
}

func (f *testFixture) last() *recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rec
}

func setupTestFixture(t *testing.T, handler http.HandlerFunc) *testFixture {
	t.Helper()

	f := &testFixture{token: "access-1"}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &recorded{
			method:        r.Method,
			path:          r.URL.Path,
			query:         r.URL.Query(),
			authorization: r.Header.Get("Authorization"),
			requestID:     r.Header.Get("X-Request-ID"),
		}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&rec.body)
		}
		f.mu.Lock()
		f.rec = rec
		f.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(f.server.Close)

	f.client = apiclient.New(f.server.URL+"/api/", apiclient.TokenFunc(func() string { return f.token }))
	return f
}

func TestAttachesBearerTokenAndDecodes(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"name":"A1"}]`))
	})

	var out []map[string]any
	err := f.client.Get(context.Background(), "/stalls", url.Values{"reserved": {"false"}}, &out)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "A1", out[0]["name"])

	require.Equal(t, http.MethodGet, f.last().method)
	require.Equal(t, "/api/stalls", f.last().path)
	require.Equal(t, "false", f.last().query.Get("reserved"))
	require.Equal(t, "Bearer access-1", f.last().authorization)
	require.NotEmpty(t, f.last().requestID)
}

func TestAbsentTokenDoesNotBlockRequest(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	f.token = ""

	err := f.client.Get(context.Background(), "/stalls", nil, nil)
	require.NotNil(t, f.last(), "request must still be sent")
	require.Empty(t, f.last().authorization)
	require.True(t, apiclient.IsUnauthorized(err))
}

func TestPublicRequestOmitsToken(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	err := f.client.Do(context.Background(), apiclient.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   map[string]string{"email": "a@b.c"},
		Public: true,
	}, nil)
	require.NoError(t, err)
	require.Empty(t, f.last().authorization)
	require.Equal(t, "a@b.c", f.last().body["email"])
}

func TestServerErrorMessagePrecedence(t *testing.T) {
	cases := []struct {
		name        string
		status      int
		contentType string
		body        string
		want        string
	}{
		{"message field", 400, "application/json", `{"message":"Email already exists","error":"Bad Request"}`, "Email already exists"},
		{"error field", 403, "application/json", `{"error":"Forbidden"}`, "Forbidden"},
		{"json string", 409, "application/json", `"Stall already reserved"`, "Stall already reserved"},
		{"plain text", 401, "text/plain", "Invalid email or password", "Invalid email or password"},
		{"empty body", 500, "text/plain", "", "Server error: 500"},
		{"html page", 502, "text/html", "<html>Bad gateway</html>", "Server error: 502"},
		{"object without message", 422, "application/json", `{"field":"email"}`, "Server error: 422"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tc.contentType)
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			err := f.client.Get(context.Background(), "/x", nil, nil)
			reqErr, ok := apiclient.AsRequestError(err)
			require.True(t, ok)
			require.Equal(t, apiclient.KindServer, reqErr.Kind)
			require.Equal(t, tc.status, reqErr.Status)
			require.Equal(t, tc.want, reqErr.Error())
			require.Equal(t, tc.body, string(reqErr.Raw))
		})
	}
}

func TestUnreachableBackend(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	client := apiclient.New(addr, nil)
	err := client.Get(context.Background(), "/stalls", nil, nil)

	reqErr, ok := apiclient.AsRequestError(err)
	require.True(t, ok)
	require.Equal(t, apiclient.KindUnreachable, reqErr.Kind)
	require.Equal(t, apiclient.MessageUnreachable, reqErr.Message)
	require.False(t, reqErr.HasStatus())
	require.Zero(t, reqErr.Status)
	require.Nil(t, reqErr.Raw)
	require.True(t, apiclient.IsUnreachable(err))
}

func TestTimeoutIsUnreachable(t *testing.T) {
	release := make(chan struct{})
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	t.Cleanup(func() { close(release) })

	client := apiclient.New(f.server.URL, nil, apiclient.WithTimeout(50*time.Millisecond))
	err := client.Get(context.Background(), "/slow", nil, nil)
	require.True(t, apiclient.IsUnreachable(err))
}

func TestLocalFailures(t *testing.T) {
	client := apiclient.New("not a url", nil)
	err := client.Get(context.Background(), "/stalls", nil, nil)
	reqErr, ok := apiclient.AsRequestError(err)
	require.True(t, ok)
	require.Equal(t, apiclient.KindLocal, reqErr.Kind)
	require.Zero(t, reqErr.Status)

	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {})
	err = f.client.Post(context.Background(), "/x", map[string]any{"bad": make(chan int)}, nil)
	reqErr, ok = apiclient.AsRequestError(err)
	require.True(t, ok)
	require.Equal(t, apiclient.KindLocal, reqErr.Kind)
	require.Nil(t, f.last(), "nothing may be sent")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = f.client.Get(ctx, "/x", nil, nil)
	reqErr, ok = apiclient.AsRequestError(err)
	require.True(t, ok)
	require.Equal(t, apiclient.KindLocal, reqErr.Kind)
	require.ErrorIs(t, err, context.Canceled)
}

func TestUndecodableSuccessBody(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Logout successful"))
	})

	var text string
	require.NoError(t, f.client.Post(context.Background(), "/auth/logout", nil, &text))
	require.Equal(t, "Logout successful", text)

	var obj map[string]any
	err := f.client.Get(context.Background(), "/x", nil, &obj)
	require.ErrorIs(t, err, errors.ErrMalformedResponse)
	require.Equal(t, http.StatusOK, apiclient.StatusOf(err))
}

func TestNoRetry(t *testing.T) {
	var calls atomic.Int32
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	require.Error(t, f.client.Get(context.Background(), "/x", nil, nil))
	require.Equal(t, int32(1), calls.Load())
}
