package loginsession

import (
	"time"

	"github.com/infas01/Bookfair-Reservation-Management-System/access"
	"github.com/infas01/Bookfair-Reservation-Management-System/clients"
	"github.com/infas01/Bookfair-Reservation-Management-System/lifecycle"
	"github.com/infas01/Bookfair-Reservation-Management-System/sessions"
)

// Tab is one browser's portal state. Its session store is never shared with
// another tab and is dropped with it.
type Tab struct {
	ID string

	Store      *sessions.Store
	Nav        *lifecycle.Recorder
	Controller *lifecycle.Controller
	Guard      *access.Guard

	Admin        *clients.AdminClient
	Profile      *clients.ProfileClient
	Stalls       *clients.StallClient
	Reservations *clients.ReservationClient

	CreatedAt time.Time
	LastSeen  time.Time
}

type Repo interface {
	Upsert(tabID string, tab *Tab) error
	// Get returns the tab and marks it as seen. Tabs idle for longer than
	// the repo's maximum age are dropped and reported as not found.
	Get(tabID string) (*Tab, error)
	Delete(tabID string) error
	// Sweep drops idle tabs and returns how many were removed.
	Sweep() int
}
