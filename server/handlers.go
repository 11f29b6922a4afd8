package server

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/infas01/Bookfair-Reservation-Management-System/apiclient"
	"github.com/infas01/Bookfair-Reservation-Management-System/internal/errors"
	"github.com/infas01/Bookfair-Reservation-Management-System/lifecycle"
	"github.com/infas01/Bookfair-Reservation-Management-System/server/loginsession"
	"github.com/rs/zerolog/log"
)

type messageResponse struct {
	Message string `json:"message"`
}

type redirectResponse struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("Failed to encode response")
	}
}

// decodeInput reads a JSON body, or a form body flattened to the same JSON
// field names, into dst.
func decodeInput(r *http.Request, dst any) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			return errors.Wrapf(err, "[server decodeInput] reading body")
		}
		if err := json.Unmarshal(body, dst); err != nil {
			return errors.Wrapf(err, "[server decodeInput] invalid JSON")
		}
		return nil
	}

	if err := r.ParseForm(); err != nil {
		return errors.Wrapf(err, "[server decodeInput] invalid form")
	}
	fields := make(map[string]string, len(r.PostForm))
	for k := range r.PostForm {
		fields[k] = strings.TrimSpace(r.PostForm.Get(k))
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return errors.Wrapf(err, "[server decodeInput] encoding form")
	}
	return json.Unmarshal(raw, dst)
}

// failureStatus maps a failed data call to the status the portal answers
// with.
func failureStatus(err error) int {
	switch {
	case errors.Is(err, lifecycle.ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, lifecycle.ErrSessionSuperseded):
		return http.StatusConflict
	}
	if reqErr, ok := apiclient.AsRequestError(err); ok {
		switch reqErr.Kind {
		case apiclient.KindServer:
			return reqErr.Status
		case apiclient.KindUnreachable:
			return http.StatusBadGateway
		case apiclient.KindLocal:
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// apiFailure answers a failed data call with JSON. An expired session also
// names the route the caller was sent to.
func (s *Server) apiFailure(w http.ResponseWriter, tab *loginsession.Tab, err error) {
	status := failureStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Err(err).Str("tab", tab.ID).Msg("Request failed")
	}
	resp := redirectResponse{Message: err.Error()}
	if errors.Is(err, lifecycle.ErrSessionExpired) {
		resp.Message = lifecycle.MessageSessionExpired
		resp.Redirect = nextRoute(tab, RouteLogin)
	}
	writeJSON(w, status, resp)
}

// pageFailure is apiFailure for page routes: an expired session navigates
// instead of answering 401.
func (s *Server) pageFailure(w http.ResponseWriter, r *http.Request, tab *loginsession.Tab, err error) {
	if errors.Is(err, lifecycle.ErrSessionExpired) {
		redirectSuccess(w, r, nextRoute(tab, RouteLogin))
		return
	}
	s.apiFailure(w, tab, err)
}

// noticeOf returns the tab's visible notice, if any.
func noticeOf(tab *loginsession.Tab) *lifecycle.Notice {
	if notice, ok := tab.Controller.Board().Current(); ok {
		return &notice
	}
	return nil
}

// nextRoute consumes the tab's pending navigation, falling back when the
// controller did not navigate.
func nextRoute(tab *loginsession.Tab, fallback string) string {
	if route := tab.Nav.Take(); route != "" {
		return route
	}
	return fallback
}
