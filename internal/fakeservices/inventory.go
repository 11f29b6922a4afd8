package fakeservices

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/infas01/Bookfair-Reservation-Management-System/clients"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Inventory emulates the stall and reservation services, which share the
// identity service's tokens.
type Inventory struct {
	verifier Verifier
	logger   zerolog.Logger

	mu           sync.RWMutex
	stalls       []clients.Stall
	reservations []clients.Reservation
}

func NewInventory(verifier Verifier) *Inventory {
	return &Inventory{
		verifier: verifier,
		logger:   log.Logger.With().Str("component", "fake-inventory").Logger(),
	}
}

func (inv *Inventory) AddStall(stall clients.Stall) clients.Stall {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	stall.ID = int64(len(inv.stalls) + 1)
	inv.stalls = append(inv.stalls, stall)
	return stall
}

// Reserve books a stall for a vendor and marks the stall reserved.
func (inv *Inventory) Reserve(r clients.Reservation) (clients.Reservation, bool) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	for i := range inv.stalls {
		if inv.stalls[i].ID != r.StallID {
			continue
		}
		if inv.stalls[i].IsReserved {
			return clients.Reservation{}, false
		}
		inv.stalls[i].IsReserved = true
		r.ID = int64(len(inv.reservations) + 1)
		if r.ReservationDate.IsZero() {
			r.ReservationDate = time.Now().UTC().Truncate(time.Second)
		}
		if r.QRCode == "" {
			r.QRCode = "BRMS-" + strconv.FormatInt(r.StallID, 10) + "-" + strconv.FormatInt(r.ID, 10)
		}
		inv.reservations = append(inv.reservations, r)
		return r, true
	}
	return clients.Reservation{}, false
}

// StallRoutes serves /api/stalls.
func (inv *Inventory) StallRoutes() http.Handler {
	r := inv.router()
	r.Route("/api/stalls", func(r chi.Router) {
		r.Get("/", inv.handleListStalls)
		r.Get("/{id}", inv.handleGetStall)
	})
	return r
}

// ReservationRoutes serves /api/reservations.
func (inv *Inventory) ReservationRoutes() http.Handler {
	r := inv.router()
	r.Route("/api/reservations", func(r chi.Router) {
		r.Get("/", inv.handleListReservations)
		r.Get("/{id}", inv.handleGetReservation)
		r.Get("/stall/{id}", inv.handleReservationsByStall)
		r.Get("/user/{id}", inv.handleReservationsByUser)
	})
	return r
}

func (inv *Inventory) router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(inv.logger))
	r.Use(requireBearer(inv.verifier))
	return r
}

func (inv *Inventory) handleListStalls(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var reserved *bool
	if raw := query.Get("reserved"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid reserved filter")
			return
		}
		reserved = &v
	}
	size := strings.ToUpper(query.Get("size"))

	inv.mu.RLock()
	defer inv.mu.RUnlock()
	list := make([]clients.Stall, 0, len(inv.stalls))
	for _, s := range inv.stalls {
		if reserved != nil && s.IsReserved != *reserved {
			continue
		}
		if size != "" && s.Size != size {
			continue
		}
		list = append(list, s)
	}
	writeJSON(w, http.StatusOK, list)
}

func (inv *Inventory) handleGetStall(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	for _, s := range inv.stalls {
		if s.ID == id {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "Stall not found with id: "+strconv.FormatInt(id, 10))
}

func (inv *Inventory) handleListReservations(w http.ResponseWriter, r *http.Request) {
	inv.writeReservations(w, func(clients.Reservation) bool { return true })
}

func (inv *Inventory) handleGetReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	for _, res := range inv.reservations {
		if res.ID == id {
			writeJSON(w, http.StatusOK, res)
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "Reservation not found with id: "+strconv.FormatInt(id, 10))
}

func (inv *Inventory) handleReservationsByStall(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	inv.writeReservations(w, func(res clients.Reservation) bool { return res.StallID == id })
}

func (inv *Inventory) handleReservationsByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	inv.writeReservations(w, func(res clients.Reservation) bool { return res.UserID == userID })
}

func (inv *Inventory) writeReservations(w http.ResponseWriter, keep func(clients.Reservation) bool) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	list := make([]clients.Reservation, 0, len(inv.reservations))
	for _, res := range inv.reservations {
		if keep(res) {
			list = append(list, res)
		}
	}
	writeJSON(w, http.StatusOK, list)
}

func int64Param(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}
