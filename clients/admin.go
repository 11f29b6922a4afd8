package clients

import (
	"context"
	"net/url"

	"github.com/infas01/Bookfair-Reservation-Management-System/apiclient"
	"github.com/infas01/Bookfair-Reservation-Management-System/users"
)

// AdminClient covers account management on the identity service. Every
// call requires an ADMIN access token.
type AdminClient struct {
	api *apiclient.Client
}

func NewAdminClient(api *apiclient.Client) *AdminClient {
	return &AdminClient{api: api}
}

// RegisterEmployee creates an EMPLOYEE account and returns the service's
// confirmation message.
func (c *AdminClient) RegisterEmployee(ctx context.Context, e EmployeeRegistration) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.api.Post(ctx, "/api/auth/admin/register-employee", e, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ListUsers lists accounts, optionally only those holding role.
func (c *AdminClient) ListUsers(ctx context.Context, role users.Role) ([]users.User, error) {
	var query url.Values
	if role != "" {
		query = url.Values{"role": {string(role)}}
	}
	var list []users.User
	if err := c.api.Get(ctx, "/api/admin/users", query, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *AdminClient) GetUser(ctx context.Context, id string) (users.User, error) {
	var u users.User
	err := c.api.Get(ctx, "/api/admin/users/"+url.PathEscape(id), nil, &u)
	return u, err
}

func (c *AdminClient) DeleteUser(ctx context.Context, id string) error {
	return c.api.Delete(ctx, "/api/admin/users/"+url.PathEscape(id), nil)
}

func (c *AdminClient) UpdateRole(ctx context.Context, id string, role users.Role) (users.User, error) {
	var u users.User
	body := map[string]string{"role": string(role)}
	err := c.api.Put(ctx, "/api/admin/users/"+url.PathEscape(id)+"/role", body, &u)
	return u, err
}

func (c *AdminClient) Stats(ctx context.Context) (UserStats, error) {
	var stats UserStats
	err := c.api.Get(ctx, "/api/admin/stats", nil, &stats)
	return stats, err
}
