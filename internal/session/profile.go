// AngelaMos | 2026
// profile.go

package session

import (
	"github.com/lestrrat-go/jwx/v3/jwt"
)

// ProfileVersion guards stored records: a bump invalidates every
// existing session on deploy instead of half-decoding old shapes.
const ProfileVersion = 1

// Profile is the typed local identity record decoded exactly once
// when a session is created. It feeds the feedback relay and
// analytics; nothing security-relevant hangs off it.
type Profile struct {
	Version   int    `json:"version"`
	UserID    string `json:"userId"`
	CompanyID string `json:"companyId"`
	Email     string `json:"email"`
	Plan      string `json:"plan"`
}

func (p Profile) IsZero() bool {
	return p.UserID == "" && p.CompanyID == "" && p.Email == "" && p.Plan == ""
}

// DecodeProfile peeks at the bearer token's claims. The scheduling
// API owns the signing keys, so the parse is unverified; a token that
// does not decode yields an empty profile, never a partial one.
func DecodeProfile(token string) Profile {
	parsed, err := jwt.ParseInsecure([]byte(token))
	if err != nil {
		return Profile{Version: ProfileVersion}
	}

	p := Profile{Version: ProfileVersion}

	if sub, ok := parsed.Subject(); ok {
		p.UserID = sub
	}

	var companyID string
	if err := parsed.Get("companyId", &companyID); err == nil {
		p.CompanyID = companyID
	}

	var email string
	if err := parsed.Get("email", &email); err == nil {
		p.Email = email
	}

	// The plan claim is a hint for display only; billing state is
	// always refetched where it matters.
	var plan string
	if err := parsed.Get("plan", &plan); err == nil {
		p.Plan = plan
	}

	return p
}
