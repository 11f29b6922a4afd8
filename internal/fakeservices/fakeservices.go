// Package fakeservices provides in-memory stand-ins for the identity, stall
// and reservation services. Tests run them behind httptest servers and the
// mock command serves them on the default backend ports.
package fakeservices

import (
	"fmt"
	"net/http"

	"github.com/infas01/Bookfair-Reservation-Management-System/clients"
	"github.com/infas01/Bookfair-Reservation-Management-System/internal/utils"
	"github.com/infas01/Bookfair-Reservation-Management-System/users"
)

// Demo accounts created by Seed. Every password is DemoPassword.
const (
	DemoAdminEmail    = "admin@bookfair.lk"
	DemoEmployeeEmail = "employee@bookfair.lk"
	DemoVendorEmail   = "vendor@bookfair.lk"
	DemoPassword      = "password123"
)

type Backends struct {
	Identity  *Identity
	Inventory *Inventory
}

func New(opts ...IdentityOption) (*Backends, error) {
	identity, err := NewIdentity(opts...)
	if err != nil {
		return nil, err
	}
	return &Backends{
		Identity:  identity,
		Inventory: NewInventory(identity.Verifier()),
	}, nil
}

// IdentityHandler serves both the identity and the profile endpoints.
func (b *Backends) IdentityHandler() http.Handler {
	return b.Identity.Routes()
}

func (b *Backends) StallHandler() http.Handler {
	return b.Inventory.StallRoutes()
}

func (b *Backends) ReservationHandler() http.Handler {
	return b.Inventory.ReservationRoutes()
}

// Seed adds the demo accounts, a hall of stalls and a reservation.
func (b *Backends) Seed() error {
	accounts := []struct {
		reg  users.Registration
		role users.Role
	}{
		{users.Registration{Name: "Fair Admin", Email: DemoAdminEmail, Password: DemoPassword}, users.RoleAdmin},
		{users.Registration{Name: "Nimal Perera", Email: DemoEmployeeEmail, Phone: utils.Ptr("0771234567"), Password: DemoPassword}, users.RoleEmployee},
		{users.Registration{Name: "Sara Silva", Email: DemoVendorEmail, Phone: utils.Ptr("0719876543"), BusinessName: utils.Ptr("Silva Books"), Password: DemoPassword}, users.RoleUser},
	}
	var vendor users.User
	for _, a := range accounts {
		u, err := b.Identity.AddAccount(a.reg, a.role)
		if err != nil {
			return fmt.Errorf("[Backends Seed] %w", err)
		}
		if a.role == users.RoleUser {
			vendor = u
		}
	}

	sizes := []struct {
		size       string
		dimensions string
		price      float64
	}{
		{"SMALL", "2m x 2m", 15000},
		{"MEDIUM", "3m x 3m", 25000},
		{"LARGE", "4m x 5m", 40000},
	}
	for hall := 'A'; hall <= 'C'; hall++ {
		for i, sz := range sizes {
			b.Inventory.AddStall(clients.Stall{
				Name:       fmt.Sprintf("%c%d", hall, i+1),
				Size:       sz.size,
				Location:   fmt.Sprintf("Hall %c", hall),
				Dimensions: sz.dimensions,
				Price:      sz.price,
			})
		}
	}

	_, ok := b.Inventory.Reserve(clients.Reservation{
		StallID:      1,
		UserID:       vendor.ID,
		UserName:     vendor.Name,
		UserEmail:    vendor.Email,
		UserPhone:    utils.Value(vendor.Phone),
		BusinessName: utils.Value(vendor.BusinessName),
	})
	if !ok {
		return fmt.Errorf("[Backends Seed] could not reserve the demo stall")
	}
	return nil
}
