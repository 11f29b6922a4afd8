package server

import (
	"net/http"
	"strings"

	"github.com/infas01/Bookfair-Reservation-Management-System/lifecycle"
	"github.com/infas01/Bookfair-Reservation-Management-System/server/loginsession"
)

// LoginPageData is the login view model
type LoginPageData struct {
	AppName      string            `json:"appName"`
	Error        string            `json:"error,omitempty"`
	Notice       *lifecycle.Notice `json:"notice,omitempty"`
	ShowRegister bool              `json:"showRegister"`
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) LoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, LoginPageData{
			AppName:      s.config.GetAppName(),
			Error:        r.URL.Query().Get("error"),
			Notice:       noticeOf(tabFrom(r)),
			ShowRegister: true,
		})
	}
}

// LoginSubmissionHandler signs the tab in and follows the controller's
// navigation. Failures return to the login page with the message shown.
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tab := tabFrom(r)

		var in loginInput
		if err := decodeInput(r, &in); err != nil {
			redirectWithError(w, r, RouteLogin, "Invalid login request")
			return
		}
		in.Email = strings.TrimSpace(in.Email)
		if err := s.validator.ValidateUserCredentials(in.Email, in.Password); err != nil {
			tab.Controller.Board().Notify(lifecycle.NoticeError, err.Error())
			redirectWithError(w, r, RouteLogin, err.Error())
			return
		}

		if err := tab.Controller.Login(r.Context(), in.Email, in.Password); err != nil {
			s.logger.Debug().Err(err).Str("email", in.Email).Msg("Login failed")
			redirectWithError(w, r, RouteLogin, failureMessage(tab, err))
			return
		}
		redirectSuccess(w, r, nextRoute(tab, RouteHome))
	}
}

// LogoutHandler always ends at the login page, whatever the identity
// service says.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tab := tabFrom(r)
		tab.Controller.Logout(r.Context())
		redirectSuccess(w, r, nextRoute(tab, RouteLogin))
	}
}

// failureMessage prefers the notice the controller raised for err.
func failureMessage(tab *loginsession.Tab, err error) string {
	if notice := noticeOf(tab); notice != nil && notice.Kind == lifecycle.NoticeError {
		return notice.Message
	}
	return err.Error()
}
