package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/infas01/Bookfair-Reservation-Management-System/clients"
	"github.com/infas01/Bookfair-Reservation-Management-System/lifecycle"
	"github.com/infas01/Bookfair-Reservation-Management-System/users"
)

const (
	messageProfileUpdated    = "Profile updated successfully"
	messagePasswordChanged   = "Password changed successfully"
	messagePasswordsRequired = "Current and new password are required"
)

// ProfilePageData is the signed-in user's profile view model
type ProfilePageData struct {
	User   users.User        `json:"user"`
	Notice *lifecycle.Notice `json:"notice,omitempty"`
}

func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tab := tabFrom(r)

		var profile users.User
		err := tab.Controller.Call(r.Context(), func(ctx context.Context) error {
			var err error
			profile, err = tab.Profile.Get(ctx)
			return err
		})
		if err != nil {
			s.pageFailure(w, r, tab, err)
			return
		}
		writeJSON(w, http.StatusOK, ProfilePageData{User: profile, Notice: noticeOf(tab)})
	}
}

// ProfileUpdateHandler saves the profile and replaces the session identity
// with what the service returned. Tokens are untouched.
func (s *Server) ProfileUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tab := tabFrom(r)

		var in clients.ProfileUpdate
		if err := decodeInput(r, &in); err != nil {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid profile update"})
			return
		}
		in.Name = strings.TrimSpace(in.Name)
		if in.Name == "" {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Name is required"})
			return
		}

		var updated users.User
		err := tab.Controller.Call(r.Context(), func(ctx context.Context) error {
			var err error
			updated, err = tab.Profile.Update(ctx, in)
			return err
		})
		if err != nil {
			s.pageFailure(w, r, tab, err)
			return
		}
		if err := tab.Controller.UpdateProfile(updated); err != nil {
			s.logger.Err(err).Str("tab", tab.ID).Msg("Failed to store updated profile")
			writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Internal server error"})
			return
		}

		tab.Controller.Board().Notify(lifecycle.NoticeSuccess, messageProfileUpdated)
		session, _ := tab.Store.Get()
		writeJSON(w, http.StatusOK, ProfilePageData{User: session.User, Notice: noticeOf(tab)})
	}
}

func (s *Server) ChangePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tab := tabFrom(r)

		var in clients.PasswordChange
		if err := decodeInput(r, &in); err != nil || in.CurrentPassword == "" || in.NewPassword == "" {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: messagePasswordsRequired})
			return
		}

		err := tab.Controller.Call(r.Context(), func(ctx context.Context) error {
			return tab.Profile.ChangePassword(ctx, in)
		})
		if err != nil {
			s.pageFailure(w, r, tab, err)
			return
		}
		tab.Controller.Board().Notify(lifecycle.NoticeSuccess, messagePasswordChanged)
		writeJSON(w, http.StatusOK, messageResponse{Message: messagePasswordChanged})
	}
}
