// AngelaMos | 2026
// errors.go

package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized means the bearer token was rejected. Handlers
	// react by destroying the session and redirecting to signup.
	ErrUnauthorized = errors.New("api: unauthorized")

	// ErrNotFound maps 404 responses; the schedule view treats it as
	// "no schedule exists for this week yet".
	ErrNotFound = errors.New("api: not found")
)

const (
	CodePlanLimitReached    = "PLAN_LIMIT_REACHED"
	CodePlanLimitExceeded   = "PLAN_LIMIT_EXCEEDED"
	CodeFeatureNotAvailable = "FEATURE_NOT_AVAILABLE"
)

// PaywallError is the plan-limit variant of an API failure. It is not
// a hard failure: call sites open the paywall prompt instead of an
// error banner.
type PaywallError struct {
	Code    string
	Message string
}

func (e *PaywallError) Error() string {
	return fmt.Sprintf("api: paywall %s: %s", e.Code, e.Message)
}

// Kind collapses the two limit spellings the API emits into the
// single variant the paywall prompt understands.
func (e *PaywallError) Kind() string {
	if e.Code == CodePlanLimitExceeded {
		return CodePlanLimitReached
	}
	return e.Code
}

func AsPaywall(err error) (*PaywallError, bool) {
	var pw *PaywallError
	if errors.As(err, &pw) {
		return pw, true
	}
	return nil, false
}

func isPaywallCode(code string) bool {
	switch code {
	case CodePlanLimitReached, CodePlanLimitExceeded, CodeFeatureNotAvailable:
		return true
	}
	return false
}

// APIError covers every remaining failure: the message comes from the
// response's error field when present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}
