package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/infas01/Bookfair-Reservation-Management-System/clients"
	"github.com/infas01/Bookfair-Reservation-Management-System/lifecycle"
	"github.com/infas01/Bookfair-Reservation-Management-System/users"
)

const (
	messageInvalidRole         = "Invalid role. Must be USER, EMPLOYEE, or ADMIN"
	messageEmployeeRegistered  = "Employee registered successfully"
	messageEmployeeIncomplete  = "Invalid employee registration"
	messageEmployeeRoleUpdated = "User role updated successfully"
)

type roleInput struct {
	Role string `json:"role"`
}

func (s *Server) AdminUpdateRoleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tab := tabFrom(r)
		id := r.PathValue("id")

		var in roleInput
		if err := decodeInput(r, &in); err != nil {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: messageInvalidRole})
			return
		}
		role, err := users.ParseRole(in.Role)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: messageInvalidRole})
			return
		}

		var updated users.User
		err = tab.Controller.Call(r.Context(), func(ctx context.Context) error {
			var err error
			updated, err = tab.Admin.UpdateRole(ctx, id, role)
			return err
		})
		if err != nil {
			s.pageFailure(w, r, tab, err)
			return
		}
		s.logger.Info().Str("user_id", id).Str("role", role.String()).Msg("User role updated")
		tab.Controller.Board().Notify(lifecycle.NoticeSuccess, messageEmployeeRoleUpdated)
		writeJSON(w, http.StatusOK, updated)
	}
}

// AdminRegisterEmployeeHandler creates a staff account and moves on to the
// employee listing.
func (s *Server) AdminRegisterEmployeeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tab := tabFrom(r)

		var in clients.EmployeeRegistration
		if err := decodeInput(r, &in); err != nil {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: messageEmployeeIncomplete})
			return
		}
		in.Name = strings.TrimSpace(in.Name)
		in.Email = strings.TrimSpace(in.Email)
		err := s.validator.ValidateRegistration(users.Registration{Name: in.Name, Email: in.Email, Password: in.Password})
		if err != nil {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: err.Error()})
			return
		}

		var message string
		err = tab.Controller.Call(r.Context(), func(ctx context.Context) error {
			var err error
			message, err = tab.Admin.RegisterEmployee(ctx, in)
			return err
		})
		if err != nil {
			s.pageFailure(w, r, tab, err)
			return
		}
		if message == "" {
			message = messageEmployeeRegistered
		}
		tab.Controller.Board().Notify(lifecycle.NoticeSuccess, message)
		redirectSuccess(w, r, RouteAdminUsers+"?role="+url.QueryEscape(users.RoleEmployee.String()))
	}
}
