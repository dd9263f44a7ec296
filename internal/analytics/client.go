// AngelaMos | 2026
// client.go

package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/escalapronta/web/internal/config"
)

// Event names mirror the tags the pages used to fire client-side.
const (
	EventPageView          = "page_view"
	EventSignUp            = "sign_up"
	EventLogin             = "login"
	EventBeginCheckout     = "begin_checkout"
	EventFeedbackSubmitted = "feedback_submitted"
	EventPaywallShown      = "paywall_shown"
)

// Client sends events to the GA4 Measurement Protocol. Tracking is
// strictly fire-and-forget: a missing configuration makes every call
// a no-op and a failed send is only logged, so analytics can never
// break a page.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
	enabled    bool
}

func New(cfg config.AnalyticsConfig, logger *slog.Logger) *Client {
	enabled := cfg.Enabled && cfg.MeasurementID != "" && cfg.APISecret != ""

	endpoint := ""
	if enabled {
		endpoint = fmt.Sprintf(
			"%s?measurement_id=%s&api_secret=%s",
			cfg.Endpoint,
			url.QueryEscape(cfg.MeasurementID),
			url.QueryEscape(cfg.APISecret),
		)
	}

	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		logger:  logger,
		enabled: enabled,
	}
}

func (c *Client) Enabled() bool {
	return c.enabled
}

type payload struct {
	ClientID string  `json:"client_id"`
	Events   []event `json:"events"`
}

type event struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

// Track dispatches one event in the background. The caller's context
// is deliberately not used: page handlers return before the send
// completes.
func (c *Client) Track(clientID, name string, params map[string]any) {
	if !c.enabled {
		return
	}

	if clientID == "" {
		clientID = "anonymous"
	}

	go c.send(clientID, name, params)
}

func (c *Client) send(clientID, name string, params map[string]any) {
	body, err := json.Marshal(payload{
		ClientID: clientID,
		Events:   []event{{Name: name, Params: params}},
	})
	if err != nil {
		c.logger.Warn("analytics encode failed", "event", name, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.endpoint,
		bytes.NewReader(body),
	)
	if err != nil {
		c.logger.Warn("analytics request failed", "event", name, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("analytics send failed", "event", name, "error", err)
		return
	}
	//nolint:errcheck // drain for connection reuse
	_, _ = io.Copy(io.Discard, resp.Body)
	//nolint:errcheck // best-effort close
	_ = resp.Body.Close()

	if resp.StatusCode >= 300 {
		c.logger.Warn("analytics rejected",
			"event", name,
			"status", resp.StatusCode,
		)
	}
}
