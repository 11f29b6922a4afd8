package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/infas01/Bookfair-Reservation-Management-System/clients"
	"github.com/infas01/Bookfair-Reservation-Management-System/users"
)

// SessionResponse reports the tab's session without its tokens
type SessionResponse struct {
	Authenticated bool        `json:"authenticated"`
	User          *users.User `json:"user,omitempty"`
}

type stallsResponse struct {
	Stalls []clients.Stall    `json:"stalls"`
	Stats  clients.StallStats `json:"stats"`
}

func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := tabFrom(r).Store.Get()
		if !ok {
			writeJSON(w, http.StatusOK, SessionResponse{})
			return
		}
		writeJSON(w, http.StatusOK, SessionResponse{Authenticated: true, User: &session.User})
	}
}

// NoticeHandler returns the visible notice, or 204 when there is none.
func (s *Server) NoticeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notice := noticeOf(tabFrom(r))
		if notice == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, notice)
	}
}

func (s *Server) DismissNoticeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tabFrom(r).Controller.Board().Dismiss()
		w.WriteHeader(http.StatusNoContent)
	}
}

// StallsHandler lists stalls. ?reserved=true|false and ?size= narrow the
// list.
func (s *Server) StallsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tab := tabFrom(r)

		filter := clients.StallFilter{Size: r.URL.Query().Get("size")}
		if raw := r.URL.Query().Get("reserved"); raw != "" {
			reserved, err := strconv.ParseBool(raw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, messageResponse{Message: "reserved must be true or false"})
				return
			}
			filter.Reserved = &reserved
		}

		var stalls []clients.Stall
		err := tab.Controller.Call(r.Context(), func(ctx context.Context) error {
			var err error
			stalls, err = tab.Stalls.List(ctx, filter)
			return err
		})
		if err != nil {
			s.apiFailure(w, tab, err)
			return
		}
		if stalls == nil {
			stalls = []clients.Stall{}
		}
		writeJSON(w, http.StatusOK, stallsResponse{Stalls: stalls, Stats: clients.SummarizeStalls(stalls)})
	}
}

func (s *Server) StallHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tab := tabFrom(r)

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid stall id"})
			return
		}

		var stall clients.Stall
		err = tab.Controller.Call(r.Context(), func(ctx context.Context) error {
			var err error
			stall, err = tab.Stalls.Get(ctx, id)
			return err
		})
		if err != nil {
			s.apiFailure(w, tab, err)
			return
		}
		writeJSON(w, http.StatusOK, stall)
	}
}

// ReservationsHandler lists reservations, all of them or those for
// ?stallId= or ?userId=.
func (s *Server) ReservationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tab := tabFrom(r)
		query := r.URL.Query()

		var fetch func(ctx context.Context) ([]clients.Reservation, error)
		switch {
		case query.Get("stallId") != "":
			stallID, err := strconv.ParseInt(query.Get("stallId"), 10, 64)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid stall id"})
				return
			}
			fetch = func(ctx context.Context) ([]clients.Reservation, error) {
				return tab.Reservations.ByStall(ctx, stallID)
			}
		case query.Get("userId") != "":
			userID := query.Get("userId")
			fetch = func(ctx context.Context) ([]clients.Reservation, error) {
				return tab.Reservations.ByUser(ctx, userID)
			}
		default:
			fetch = tab.Reservations.List
		}

		var reservations []clients.Reservation
		err := tab.Controller.Call(r.Context(), func(ctx context.Context) error {
			var err error
			reservations, err = fetch(ctx)
			return err
		})
		if err != nil {
			s.apiFailure(w, tab, err)
			return
		}
		if reservations == nil {
			reservations = []clients.Reservation{}
		}
		writeJSON(w, http.StatusOK, reservations)
	}
}
