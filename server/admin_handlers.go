package server

import (
	"context"
	"net/http"

	"github.com/infas01/Bookfair-Reservation-Management-System/clients"
	"github.com/infas01/Bookfair-Reservation-Management-System/lifecycle"
	"github.com/infas01/Bookfair-Reservation-Management-System/users"
)

const messageUserDeleted = "User deleted successfully"

// AdminDashboardData is the admin landing page
type AdminDashboardData struct {
	AppName string            `json:"appName"`
	User    users.User        `json:"user"`
	Stats   clients.UserStats `json:"stats"`
	Notice  *lifecycle.Notice `json:"notice,omitempty"`
}

// AdminUsersData lists accounts, optionally filtered to one role
type AdminUsersData struct {
	Role   users.Role        `json:"role,omitempty"`
	Users  []users.User      `json:"users"`
	Notice *lifecycle.Notice `json:"notice,omitempty"`
}

func (s *Server) AdminDashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tab := tabFrom(r)

		var stats clients.UserStats
		err := tab.Controller.Call(r.Context(), func(ctx context.Context) error {
			var err error
			stats, err = tab.Admin.Stats(ctx)
			return err
		})
		if err != nil {
			s.pageFailure(w, r, tab, err)
			return
		}

		session, _ := tab.Store.Get()
		writeJSON(w, http.StatusOK, AdminDashboardData{
			AppName: s.config.GetAppName(),
			User:    session.User,
			Stats:   stats,
			Notice:  noticeOf(tab),
		})
	}
}

func (s *Server) AdminUsersListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tab := tabFrom(r)

		var role users.Role
		if raw := r.URL.Query().Get("role"); raw != "" {
			parsed, err := users.ParseRole(raw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, messageResponse{Message: messageInvalidRole})
				return
			}
			role = parsed
		}

		var list []users.User
		err := tab.Controller.Call(r.Context(), func(ctx context.Context) error {
			var err error
			list, err = tab.Admin.ListUsers(ctx, role)
			return err
		})
		if err != nil {
			s.pageFailure(w, r, tab, err)
			return
		}
		if list == nil {
			list = []users.User{}
		}
		writeJSON(w, http.StatusOK, AdminUsersData{Role: role, Users: list, Notice: noticeOf(tab)})
	}
}

func (s *Server) AdminDeleteUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tab := tabFrom(r)
		id := r.PathValue("id")

		err := tab.Controller.Call(r.Context(), func(ctx context.Context) error {
			return tab.Admin.DeleteUser(ctx, id)
		})
		if err != nil {
			s.pageFailure(w, r, tab, err)
			return
		}
		s.logger.Info().Str("user_id", id).Msg("User deleted")
		tab.Controller.Board().Notify(lifecycle.NoticeSuccess, messageUserDeleted)
		writeJSON(w, http.StatusOK, messageResponse{Message: messageUserDeleted})
	}
}
