package server

import (
	"context"
	"net/http"

	"github.com/infas01/Bookfair-Reservation-Management-System/access"
	"github.com/infas01/Bookfair-Reservation-Management-System/clients"
	"github.com/infas01/Bookfair-Reservation-Management-System/lifecycle"
	"github.com/infas01/Bookfair-Reservation-Management-System/users"
)

// IndexHandler sends the caller to their home route, or to login.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := tabFrom(r).Store.Get()
		if !ok {
			redirectSuccess(w, r, RouteLogin)
			return
		}
		redirectSuccess(w, r, access.HomeFor(session.User.Role))
	}
}

// HomePageData is the staff landing page: the stall floor and every
// reservation against it.
type HomePageData struct {
	AppName      string                `json:"appName"`
	User         users.User            `json:"user"`
	Stalls       []clients.Stall       `json:"stalls"`
	Stats        clients.StallStats    `json:"stats"`
	Reservations []clients.Reservation `json:"reservations"`
	Notice       *lifecycle.Notice     `json:"notice,omitempty"`
}

func (s *Server) HomeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tab := tabFrom(r)

		var data HomePageData
		err := tab.Controller.Call(r.Context(), func(ctx context.Context) error {
			stalls, err := tab.Stalls.List(ctx, clients.StallFilter{})
			if err != nil {
				return err
			}
			data.Stalls = stalls
			return nil
		})
		if err != nil {
			s.pageFailure(w, r, tab, err)
			return
		}
		err = tab.Controller.Call(r.Context(), func(ctx context.Context) error {
			reservations, err := tab.Reservations.List(ctx)
			if err != nil {
				return err
			}
			data.Reservations = reservations
			return nil
		})
		if err != nil {
			s.pageFailure(w, r, tab, err)
			return
		}

		session, _ := tab.Store.Get()
		data.AppName = s.config.GetAppName()
		data.User = session.User
		data.Stats = clients.SummarizeStalls(data.Stalls)
		data.Notice = noticeOf(tab)
		writeJSON(w, http.StatusOK, data)
	}
}
