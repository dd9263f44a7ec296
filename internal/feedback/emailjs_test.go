// AngelaMos | 2026
// emailjs_test.go

package feedback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/escalapronta/web/internal/config"
)

func testConfig(endpoint string) config.EmailJSConfig {
	return config.EmailJSConfig{
		Endpoint:   endpoint,
		ServiceID:  "service_x",
		TemplateID: "template_y",
		APIKey:     "key_z",
	}
}

func TestSendPayload(t *testing.T) {
	var got sendRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	client := NewEmailJS(testConfig(srv.URL))

	err := client.Send(context.Background(), Message{
		Type:      "bug",
		Message:   "o calendário não carrega",
		Email:     "dona@padaria.com.br",
		Page:      "/schedule",
		UserID:    "user-1",
		CompanyID: "company-1",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if got.ServiceID != "service_x" || got.TemplateID != "template_y" || got.UserID != "key_z" {
		t.Errorf("credentials = %+v", got)
	}
	if got.TemplateParams.Type != "bug" || got.TemplateParams.Page != "/schedule" {
		t.Errorf("params = %+v", got.TemplateParams)
	}
	if got.TemplateParams.Email != "dona@padaria.com.br" {
		t.Errorf("Email = %q", got.TemplateParams.Email)
	}
}

func TestSendAnonymousFallbacks(t *testing.T) {
	var got sendRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		//nolint:errcheck // test handler
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	client := NewEmailJS(testConfig(srv.URL))

	if err := client.Send(context.Background(), Message{
		Type:    "suggestion",
		Message: "mais cores",
		Page:    "/",
	}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if got.TemplateParams.Email != "Não informado" {
		t.Errorf("Email fallback = %q", got.TemplateParams.Email)
	}
	if got.TemplateParams.UserID != "Não autenticado" {
		t.Errorf("UserID fallback = %q", got.TemplateParams.UserID)
	}
	if got.TemplateParams.CompanyID != "Não disponível" {
		t.Errorf("CompanyID fallback = %q", got.TemplateParams.CompanyID)
	}
}

func TestSendRequiresConfiguration(t *testing.T) {
	client := NewEmailJS(config.EmailJSConfig{Endpoint: "https://api.emailjs.com"})

	if client.Configured() {
		t.Error("Configured() should be false without credentials")
	}

	if err := client.Send(context.Background(), Message{Type: "bug", Message: "x", Page: "/"}); err == nil {
		t.Error("Send must fail when unconfigured")
	}
}

func TestSendSurfacesUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	client := NewEmailJS(testConfig(srv.URL))

	if err := client.Send(context.Background(), Message{Type: "bug", Message: "x", Page: "/"}); err == nil {
		t.Error("Send must surface non-2xx responses")
	}
}
