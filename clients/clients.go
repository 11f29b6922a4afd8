// Package clients wraps one apiclient.Client per backend with typed calls.
// Every method fails with the normalized *apiclient.RequestError.
package clients

import (
	"encoding/json"
	"time"

	"github.com/infas01/Bookfair-Reservation-Management-System/internal/utils"
)

// Stall is a sellable floor space as the stall inventory service reports it.
type Stall struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Size       string  `json:"size"` // SMALL, MEDIUM or LARGE
	Location   string  `json:"location"`
	Dimensions string  `json:"dimensions"`
	Price      float64 `json:"price"`
	IsReserved bool    `json:"isReserved"`
}

// StallFilter narrows a stall listing. Nil/empty fields do not filter.
type StallFilter struct {
	Reserved *bool
	Size     string
}

// StallStats summarises a stall listing for the employee home view.
type StallStats struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Reserved  int `json:"reserved"`
	Small     int `json:"small"`
	Medium    int `json:"medium"`
	Large     int `json:"large"`
}

func SummarizeStalls(stalls []Stall) StallStats {
	stats := StallStats{Total: len(stalls)}
	for _, s := range stalls {
		if s.IsReserved {
			stats.Reserved++
		} else {
			stats.Available++
		}
		switch s.Size {
		case "SMALL":
			stats.Small++
		case "MEDIUM":
			stats.Medium++
		case "LARGE":
			stats.Large++
		}
	}
	return stats
}

type Reservation struct {
	ID              int64     `json:"id"`
	StallID         int64     `json:"stallId"`
	UserID          string    `json:"userId"`
	UserName        string    `json:"userName,omitempty"`
	UserEmail       string    `json:"userEmail,omitempty"`
	UserPhone       string    `json:"userPhone,omitempty"`
	BusinessName    string    `json:"businessName,omitempty"`
	ReservationDate time.Time `json:"reservationDate"`
	QRCode          string    `json:"qrCode,omitempty"`
}

func (r *Reservation) UnmarshalJSON(data []byte) error {
	type plain Reservation
	aux := struct {
		*plain
		UserID          any `json:"userId"`
		ReservationDate any `json:"reservationDate"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.UserID = utils.IDString(aux.UserID)
	r.ReservationDate = utils.ParseTimestamp(aux.ReservationDate)
	return nil
}

type UserStats struct {
	TotalUsers int `json:"totalUsers"`
	Admins     int `json:"admins"`
	Employees  int `json:"employees"`
	Users      int `json:"users"`
}

type EmployeeRegistration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

type ProfileUpdate struct {
	Name         string  `json:"name"`
	Phone        string  `json:"phone,omitempty"`
	BusinessName *string `json:"businessName,omitempty"`
}

type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
