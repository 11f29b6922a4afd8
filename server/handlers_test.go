package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/infas01/Bookfair-Reservation-Management-System/apiclient"
	"github.com/infas01/Bookfair-Reservation-Management-System/lifecycle"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRecoverMiddlewareAnswers500(t *testing.T) {
	s := &Server{logger: zerolog.Nop()}
	handler := s.RecoverMiddleware(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/home", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"message":"Internal server error"}`, rec.Body.String())
}

func TestLogRoutesColoursMethods(t *testing.T) {
	var buf bytes.Buffer
	s := &Server{
		env:    "DEV",
		routes: []string{"GET /home", "DELETE /admin/users/{id}", "OPTIONS /api/session", "/static/"},
		logger: zerolog.New(&buf),
	}

	s.logRoutes()

	var out string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry struct {
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out += entry.Message + "\n"
	}
	require.Contains(t, out, colorGreen+" GET    "+colorReset)
	require.Contains(t, out, colorYellow+" DELETE "+colorReset)
	require.Contains(t, out, colorGray+" OPTIONS"+colorReset)
	require.Contains(t, out, "/static/")

	buf.Reset()
	s.env = "PROD"
	s.logRoutes()
	require.Zero(t, buf.Len())
}

func TestFailureStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"expired", fmt.Errorf("call: %w", lifecycle.ErrSessionExpired), http.StatusUnauthorized},
		{"superseded", lifecycle.ErrSessionSuperseded, http.StatusConflict},
		{"server", &apiclient.RequestError{Kind: apiclient.KindServer, Status: http.StatusNotFound}, http.StatusNotFound},
		{"unreachable", &apiclient.RequestError{Kind: apiclient.KindUnreachable}, http.StatusBadGateway},
		{"local", &apiclient.RequestError{Kind: apiclient.KindLocal}, http.StatusBadRequest},
		{"other", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, failureStatus(tt.err))
		})
	}
}

func TestDecodeInputAcceptsFormAndJSON(t *testing.T) {
	var fromJSON loginInput
	r := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"a@b.lk","password":"pw"}`))
	r.Header.Set("Content-Type", "application/json; charset=utf-8")
	require.NoError(t, decodeInput(r, &fromJSON))
	require.Equal(t, loginInput{Email: "a@b.lk", Password: "pw"}, fromJSON)

	var fromForm loginInput
	form := url.Values{"email": {" a@b.lk "}, "password": {"pw"}}
	r = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	require.NoError(t, decodeInput(r, &fromForm))
	require.Equal(t, loginInput{Email: "a@b.lk", Password: "pw"}, fromForm)

	r = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{`))
	r.Header.Set("Content-Type", "application/json")
	require.Error(t, decodeInput(r, &fromJSON))
}

func TestRedirectHelpersAreHTMXAware(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	redirectWithError(rec, r, RouteLogin, "Invalid email or password")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login?error=Invalid+email+or+password", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	r.Header.Set("HX-Request", "true")
	redirectSuccess(rec, r, RouteHome)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, RouteHome, rec.Header().Get("HX-Redirect"))
}
