// AngelaMos | 2026
// emailjs.go

package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/escalapronta/web/internal/config"
)

// Fallback values keep the email template readable when a visitor is
// anonymous or the profile is missing pieces.
const (
	fallbackEmail     = "Não informado"
	fallbackUserID    = "Não autenticado"
	fallbackCompanyID = "Não disponível"
)

type Message struct {
	Type      string
	Message   string
	Email     string
	Page      string
	UserID    string
	CompanyID string
}

// EmailJS relays feedback messages through the transactional-email
// API. Missing configuration surfaces as an error to the caller, who
// renders it as a toast, never a page failure.
type EmailJS struct {
	cfg        config.EmailJSConfig
	httpClient *http.Client
}

func NewEmailJS(cfg config.EmailJSConfig) *EmailJS {
	return &EmailJS{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (e *EmailJS) Configured() bool {
	return e.cfg.ServiceID != "" && e.cfg.TemplateID != "" && e.cfg.APIKey != ""
}

type sendRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	TemplateParams templateParams `json:"template_params"`
}

type templateParams struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Email     string `json:"email"`
	Page      string `json:"page"`
	UserID    string `json:"userId"`
	CompanyID string `json:"companyId"`
}

func (e *EmailJS) Send(ctx context.Context, msg Message) error {
	if !e.Configured() {
		return fmt.Errorf("emailjs configuration missing")
	}

	params := templateParams{
		Type:      msg.Type,
		Message:   msg.Message,
		Email:     orFallback(msg.Email, fallbackEmail),
		Page:      msg.Page,
		UserID:    orFallback(msg.UserID, fallbackUserID),
		CompanyID: orFallback(msg.CompanyID, fallbackCompanyID),
	}

	body, err := json.Marshal(sendRequest{
		ServiceID:      e.cfg.ServiceID,
		TemplateID:     e.cfg.TemplateID,
		UserID:         e.cfg.APIKey,
		TemplateParams: params,
	})
	if err != nil {
		return fmt.Errorf("encode feedback: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		e.cfg.Endpoint,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("build feedback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send feedback: %w", err)
	}
	//nolint:errcheck // drain for connection reuse
	_, _ = io.Copy(io.Discard, resp.Body)
	//nolint:errcheck // best-effort close
	_ = resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("send feedback: status %d", resp.StatusCode)
	}

	return nil
}

func orFallback(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
