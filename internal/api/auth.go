// AngelaMos | 2026
// auth.go

package api

import (
	"context"
	"net/http"
)

type tokenResponse struct {
	Token string `json:"token"`
}

func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	req := map[string]string{
		"email":    email,
		"password": password,
	}

	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", req, &resp); err != nil {
		return "", err
	}

	return resp.Token, nil
}

// RegisterCompany creates the tenant and its admin user in one call
// and returns an already-authenticated token.
func (c *Client) RegisterCompany(
	ctx context.Context,
	input RegisterCompanyInput,
) (string, error) {
	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, "/companies/register", "", input, &resp); err != nil {
		return "", err
	}

	return resp.Token, nil
}
