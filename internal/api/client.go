// AngelaMos | 2026
// client.go

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/escalapronta/web/internal/config"
)

// Client is the typed wrapper around the external scheduling API.
// Every authenticated call carries the caller's bearer token; the
// client itself holds no credentials and no state beyond the pool.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	tunnelBypass bool
}

func New(cfg config.APIConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		tunnelBypass: cfg.TunnelBypass,
	}
}

// Ping probes the API base URL for the readiness check. Any HTTP
// response counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping api: %w", err)
	}
	//nolint:errcheck // drain for connection reuse
	_, _ = io.Copy(io.Discard, resp.Body)
	//nolint:errcheck // best-effort close
	_ = resp.Body.Close()

	return nil
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// do issues one request and decodes the JSON response into out (when
// out is non-nil). Non-2xx responses map onto the error taxonomy:
// 401 -> ErrUnauthorized, 404 -> ErrNotFound, paywall codes ->
// *PaywallError, everything else -> *APIError. No retries anywhere;
// a failed call surfaces once and the user retries through the UI.
func (c *Client) do(
	ctx context.Context,
	method, path, token string,
	body, out any,
) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if c.tunnelBypass {
		req.Header.Set("ngrok-skip-browser-warning", "true")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() {
		//nolint:errcheck // best-effort close
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.decodeError(resp)
	}

	if out == nil {
		//nolint:errcheck // drain for connection reuse
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (c *Client) decodeError(resp *http.Response) error {
	var body errorResponse
	//nolint:errcheck // an undecodable error body falls through to the default message
	_ = json.NewDecoder(resp.Body).Decode(&body)

	code := body.Code
	if code == "" && isPaywallCode(body.Error) {
		code = body.Error
	}

	if isPaywallCode(code) {
		return &PaywallError{Code: code, Message: body.Error}
	}

	message := body.Error
	if message == "" {
		message = resp.Status
	}

	return &APIError{Status: resp.StatusCode, Message: message}
}
