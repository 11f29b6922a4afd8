package clients

import (
	"context"

	"github.com/infas01/Bookfair-Reservation-Management-System/apiclient"
	"github.com/infas01/Bookfair-Reservation-Management-System/users"
)

// ProfileClient reads and edits the signed-in user's own account.
type ProfileClient struct {
	api *apiclient.Client
}

func NewProfileClient(api *apiclient.Client) *ProfileClient {
	return &ProfileClient{api: api}
}

func (c *ProfileClient) Get(ctx context.Context) (users.User, error) {
	var u users.User
	err := c.api.Get(ctx, "/api/profile", nil, &u)
	return u, err
}

func (c *ProfileClient) Update(ctx context.Context, update ProfileUpdate) (users.User, error) {
	var u users.User
	err := c.api.Put(ctx, "/api/profile", update, &u)
	return u, err
}

func (c *ProfileClient) ChangePassword(ctx context.Context, change PasswordChange) error {
	return c.api.Put(ctx, "/api/profile/change-password", change, nil)
}
