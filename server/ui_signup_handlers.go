package server

import (
	"net/http"
	"strings"

	"github.com/infas01/Bookfair-Reservation-Management-System/lifecycle"
	"github.com/infas01/Bookfair-Reservation-Management-System/users"
)

// RegisterPageData is the self sign-up view model
type RegisterPageData struct {
	AppName string            `json:"appName"`
	Error   string            `json:"error,omitempty"`
	Notice  *lifecycle.Notice `json:"notice,omitempty"`
}

func (s *Server) RegisterPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, RegisterPageData{
			AppName: s.config.GetAppName(),
			Error:   r.URL.Query().Get("error"),
			Notice:  noticeOf(tabFrom(r)),
		})
	}
}

func (s *Server) RegisterSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tab := tabFrom(r)

		var in users.Registration
		if err := decodeInput(r, &in); err != nil {
			redirectWithError(w, r, RouteRegister, "Invalid registration request")
			return
		}
		in.Name = strings.TrimSpace(in.Name)
		in.Email = strings.TrimSpace(in.Email)
		if in.Phone != nil && strings.TrimSpace(*in.Phone) == "" {
			in.Phone = nil
		}
		if in.BusinessName != nil && strings.TrimSpace(*in.BusinessName) == "" {
			in.BusinessName = nil
		}
		if err := s.validator.ValidateRegistration(in); err != nil {
			tab.Controller.Board().Notify(lifecycle.NoticeError, err.Error())
			redirectWithError(w, r, RouteRegister, err.Error())
			return
		}

		if err := tab.Controller.Register(r.Context(), in); err != nil {
			s.logger.Debug().Err(err).Str("email", in.Email).Msg("Registration failed")
			redirectWithError(w, r, RouteRegister, failureMessage(tab, err))
			return
		}
		redirectSuccess(w, r, nextRoute(tab, RouteHome))
	}
}
