package fakeservices

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/infas01/Bookfair-Reservation-Management-System/internal/errors"
	"github.com/infas01/Bookfair-Reservation-Management-System/users"
)

func (s *Identity) handleListUsers(w http.ResponseWriter, r *http.Request) {
	var role users.Role
	if raw := r.URL.Query().Get("role"); raw != "" {
		parsed, err := users.ParseRole(raw)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid role. Must be USER, EMPLOYEE, or ADMIN")
			return
		}
		role = parsed
	}
	accounts, err := s.users.List(role)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	list := make([]map[string]any, 0, len(accounts))
	for _, a := range accounts {
		list = append(list, userJSON(a.User))
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Identity) handleGetUser(w http.ResponseWriter, r *http.Request) {
	account, ok := s.accountParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, userJSON(account.User))
}

func (s *Identity) handleUpdateRole(w http.ResponseWriter, r *http.Request) {
	account, ok := s.accountParam(w, r)
	if !ok {
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	role, err := users.ParseRole(req.Role)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid role. Must be USER, EMPLOYEE, or ADMIN")
		return
	}

	updated := *account
	updated.Role = role
	if err := s.users.Upsert(&updated); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, userJSON(updated.User))
}

func (s *Identity) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	account, ok := s.accountParam(w, r)
	if !ok {
		return
	}
	if account.Role == users.RoleAdmin {
		admins, err := s.users.List(users.RoleAdmin)
		if err != nil || len(admins) <= 1 {
			writeMessage(w, http.StatusBadRequest, "Cannot delete the last admin user")
			return
		}
	}
	if err := s.users.Delete(account.ID); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.refresh.RevokeUser(account.ID); err != nil {
		s.logger.Warn().Err(err).Str("userId", account.ID).Msg("Failed to revoke refresh tokens of deleted user")
	}
	writeText(w, http.StatusOK, "User deleted successfully")
}

func (s *Identity) handleStats(w http.ResponseWriter, r *http.Request) {
	all, err := s.users.List("")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	stats := map[string]int{"totalUsers": len(all), "users": 0, "employees": 0, "admins": 0}
	for _, a := range all {
		switch a.Role {
		case users.RoleAdmin:
			stats["admins"]++
		case users.RoleEmployee:
			stats["employees"]++
		case users.RoleUser:
			stats["users"]++
		}
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Identity) accountParam(w http.ResponseWriter, r *http.Request) (*users.Account, bool) {
	id := chi.URLParam(r, "id")
	account, err := s.users.GetByID(id)
	if errors.Is(err, errors.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "User not found with id: "+id)
		return nil, false
	}
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return account, true
}

func (s *Identity) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	account, ok := s.currentAccount(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, userJSON(account.User))
}

func (s *Identity) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	account, ok := s.currentAccount(w, r)
	if !ok {
		return
	}
	var req struct {
		Name         string  `json:"name"`
		BusinessName *string `json:"businessName"`
		Phone        *string `json:"phone"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated := *account
	if req.Name != "" {
		updated.Name = req.Name
	}
	if req.BusinessName != nil {
		updated.BusinessName = req.BusinessName
	}
	if req.Phone != nil {
		updated.Phone = req.Phone
	}
	if err := s.users.Upsert(&updated); err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, userJSON(updated.User))
}

func (s *Identity) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	account, ok := s.currentAccount(w, r)
	if !ok {
		return
	}
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := decodeBody(r, &req); err != nil || req.NewPassword == "" {
		writeText(w, http.StatusBadRequest, "New password is required")
		return
	}
	if !account.CheckPassword(req.CurrentPassword) {
		writeText(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}
	hash, err := users.HashPassword(req.NewPassword)
	if err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	updated := *account
	updated.PasswordHash = hash
	if err := s.users.Upsert(&updated); err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	writeText(w, http.StatusOK, "Password changed successfully")
}

func (s *Identity) currentAccount(w http.ResponseWriter, r *http.Request) (*users.Account, bool) {
	account, err := s.users.GetByEmail(claimsFrom(r.Context()).Email)
	if err != nil {
		writeText(w, http.StatusBadRequest, "User not found")
		return nil, false
	}
	return account, true
}
