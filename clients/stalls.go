package clients

import (
	"context"
	"net/url"
	"strconv"

	"github.com/infas01/Bookfair-Reservation-Management-System/apiclient"
)

type StallClient struct {
	api *apiclient.Client
}

func NewStallClient(api *apiclient.Client) *StallClient {
	return &StallClient{api: api}
}

func (c *StallClient) List(ctx context.Context, filter StallFilter) ([]Stall, error) {
	query := url.Values{}
	if filter.Reserved != nil {
		query.Set("reserved", strconv.FormatBool(*filter.Reserved))
	}
	if filter.Size != "" {
		query.Set("size", filter.Size)
	}
	var stalls []Stall
	if err := c.api.Get(ctx, "/stalls", query, &stalls); err != nil {
		return nil, err
	}
	return stalls, nil
}

func (c *StallClient) Get(ctx context.Context, id int64) (Stall, error) {
	var s Stall
	err := c.api.Get(ctx, "/stalls/"+strconv.FormatInt(id, 10), nil, &s)
	return s, err
}
