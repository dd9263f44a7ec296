// AngelaMos | 2026
// billing.go

package api

import (
	"context"
	"net/http"
)

func (c *Client) BillingStatus(ctx context.Context, token string) (*Subscription, error) {
	var resp Subscription
	if err := c.do(ctx, http.MethodGet, "/billing/status", token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type checkoutRequest struct {
	Plan string `json:"plan"`
}

type checkoutResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
}

// Checkout returns the hosted checkout URL the browser is redirected
// to. Payment processing happens entirely upstream.
func (c *Client) Checkout(ctx context.Context, token, plan string) (string, error) {
	var resp checkoutResponse
	if err := c.do(ctx, http.MethodPost, "/billing/checkout", token, checkoutRequest{Plan: plan}, &resp); err != nil {
		return "", err
	}
	return resp.CheckoutURL, nil
}

func (c *Client) CancelSubscription(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodDelete, "/billing/subscription", token, nil, nil)
}
