package clients

import (
	"context"
	"net/url"
	"strconv"

	"github.com/infas01/Bookfair-Reservation-Management-System/apiclient"
)

type ReservationClient struct {
	api *apiclient.Client
}

func NewReservationClient(api *apiclient.Client) *ReservationClient {
	return &ReservationClient{api: api}
}

func (c *ReservationClient) List(ctx context.Context) ([]Reservation, error) {
	return c.list(ctx, "/reservations")
}

func (c *ReservationClient) Get(ctx context.Context, id int64) (Reservation, error) {
	var r Reservation
	err := c.api.Get(ctx, "/reservations/"+strconv.FormatInt(id, 10), nil, &r)
	return r, err
}

func (c *ReservationClient) ByStall(ctx context.Context, stallID int64) ([]Reservation, error) {
	return c.list(ctx, "/reservations/stall/"+strconv.FormatInt(stallID, 10))
}

func (c *ReservationClient) ByUser(ctx context.Context, userID string) ([]Reservation, error) {
	return c.list(ctx, "/reservations/user/"+url.PathEscape(userID))
}

func (c *ReservationClient) list(ctx context.Context, path string) ([]Reservation, error) {
	var list []Reservation
	if err := c.api.Get(ctx, path, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}
