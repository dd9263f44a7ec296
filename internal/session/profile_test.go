// AngelaMos | 2026
// profile_test.go

package session

import (
	"encoding/base64"
	"encoding/json"
	"testing"
)

// makeToken builds a compact JWT without a real signature; the
// decoder never verifies, it only reads claims.
func makeToken(t *testing.T, claims map[string]any) string {
	t.Helper()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))

	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}

	sig := base64.RawURLEncoding.EncodeToString([]byte("unverified"))
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + "." + sig
}

func TestDecodeProfile(t *testing.T) {
	token := makeToken(t, map[string]any{
		"sub":       "user-1",
		"companyId": "company-9",
		"email":     "dona@padaria.com.br",
		"plan":      "PRO",
	})

	p := DecodeProfile(token)

	if p.Version != ProfileVersion {
		t.Errorf("Version = %d, want %d", p.Version, ProfileVersion)
	}
	if p.UserID != "user-1" {
		t.Errorf("UserID = %q", p.UserID)
	}
	if p.CompanyID != "company-9" {
		t.Errorf("CompanyID = %q", p.CompanyID)
	}
	if p.Email != "dona@padaria.com.br" {
		t.Errorf("Email = %q", p.Email)
	}
	if p.Plan != "PRO" {
		t.Errorf("Plan = %q", p.Plan)
	}
}

func TestDecodeProfilePartialClaims(t *testing.T) {
	token := makeToken(t, map[string]any{"sub": "user-2"})

	p := DecodeProfile(token)

	if p.UserID != "user-2" {
		t.Errorf("UserID = %q", p.UserID)
	}
	if p.CompanyID != "" || p.Email != "" {
		t.Errorf("missing claims should stay empty, got %+v", p)
	}
}

func TestDecodeProfileGarbageToken(t *testing.T) {
	for _, token := range []string{"", "not-a-jwt", "a.b"} {
		p := DecodeProfile(token)

		if !p.IsZero() {
			t.Errorf("DecodeProfile(%q) = %+v, want zero profile", token, p)
		}
		if p.Version != ProfileVersion {
			t.Errorf("even a failed decode carries the version, got %d", p.Version)
		}
	}
}
