package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/infas01/Bookfair-Reservation-Management-System/access"
	"github.com/infas01/Bookfair-Reservation-Management-System/server/loginsession"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyTab stores the caller's *loginsession.Tab
	ContextKeyTab ContextKey = "tab"
)

// WithTab resolves the caller's tab from its cookie, creating a fresh tab
// (and cookie) when there is none or it has been dropped.
func (s *Server) WithTab(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var tab *loginsession.Tab
		if cookie, err := r.Cookie(s.config.GetSessionCookieName()); err == nil && cookie.Value != "" {
			tab, _ = s.tabs.Get(cookie.Value)
		}
		if tab == nil {
			tab = s.newTab(uuid.NewString())
			if err := s.tabs.Upsert(tab.ID, tab); err != nil {
				s.logger.Err(err).Msg("Failed to store tab")
				writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Internal server error"})
				return
			}
			s.setTabCookie(w, r, tab.ID)
		}

		ctx := context.WithValue(r.Context(), ContextKeyTab, tab)
		next(w, r.WithContext(ctx))
	}
}

func tabFrom(r *http.Request) *loginsession.Tab {
	tab, _ := r.Context().Value(ContextKeyTab).(*loginsession.Tab)
	return tab
}

// RequirePageAccess guards page routes: a denied navigation is redirected to
// wherever the guard decides.
func (s *Server) RequirePageAccess(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		decision := tabFrom(r).Guard.Enter(r.URL.Path)
		if !decision.Allowed {
			s.logger.Debug().Str("path", r.URL.Path).Str("redirect", decision.Redirect).Msg("Navigation denied")
			redirectSuccess(w, r, decision.Redirect)
			return
		}
		next(w, r)
	}
}

// RequireAPIAccess guards JSON routes with req. Denials answer 401 when
// there is no session and 403 when the role is wrong, naming where the
// caller should go.
func (s *Server) RequireAPIAccess(req access.Requirement) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			tab := tabFrom(r)
			decision := tab.Guard.Check(r.URL.Path, req)
			if decision.Allowed {
				next(w, r)
				return
			}
			status := http.StatusForbidden
			if !tab.Store.IsAuthenticated() {
				status = http.StatusUnauthorized
			}
			writeJSON(w, status, redirectResponse{
				Message:  http.StatusText(status),
				Redirect: decision.Redirect,
			})
		}
	}
}
