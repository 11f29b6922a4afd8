package server

import (
	"github.com/infas01/Bookfair-Reservation-Management-System/access"
	"github.com/infas01/Bookfair-Reservation-Management-System/apiclient"
	"github.com/infas01/Bookfair-Reservation-Management-System/auth"
	"github.com/infas01/Bookfair-Reservation-Management-System/clients"
	"github.com/infas01/Bookfair-Reservation-Management-System/lifecycle"
	"github.com/infas01/Bookfair-Reservation-Management-System/server/loginsession"
	"github.com/infas01/Bookfair-Reservation-Management-System/sessions"
)

// newTab wires a tab: its own session store, notice board and controller,
// and one request client per backend, all reading tokens from that store.
func (s *Server) newTab(id string) *loginsession.Tab {
	store := sessions.NewMemoryStore()
	nav := &lifecycle.Recorder{}
	board := lifecycle.NewBoard(s.config.GetNoticeTTL())
	logger := s.logger.With().Str("tab", id).Logger()

	clientOpts := []apiclient.Option{
		apiclient.WithHTTPClient(s.httpClient),
		apiclient.WithTimeout(s.config.GetRequestTimeout()),
		apiclient.WithLogger(logger),
	}
	iam := apiclient.New(s.config.GetIAMServiceURL(), store, clientOpts...)
	profile := apiclient.New(s.config.GetProfileServiceURL(), store, clientOpts...)
	stalls := apiclient.New(s.config.GetStallServiceURL(), store, clientOpts...)
	reservations := apiclient.New(s.config.GetReservationServiceURL(), store, clientOpts...)

	gateway := auth.NewGateway(iam, auth.WithLogger(logger))
	controller := lifecycle.New(gateway, store, nav, board,
		lifecycle.WithLogger(logger),
		lifecycle.WithLogoutTimeout(s.config.GetLogoutTimeout()),
	)

	return &loginsession.Tab{
		ID:           id,
		Store:        store,
		Nav:          nav,
		Controller:   controller,
		Guard:        access.NewGuard(store),
		Admin:        clients.NewAdminClient(iam),
		Profile:      clients.NewProfileClient(profile),
		Stalls:       clients.NewStallClient(stalls),
		Reservations: clients.NewReservationClient(reservations),
	}
}
