package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors form the failure taxonomy of the service. Every operation
// boundary resolves to exactly one of these (or an unexpected infra error).
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("access forbidden")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrTenantNotFound     = errors.New("tenant not found")
	ErrTenantExists       = errors.New("tenant already exists")

	// ErrNoteNotFound covers both a genuinely absent note and a note owned by
	// another tenant. The two cases must stay indistinguishable to callers.
	ErrNoteNotFound = errors.New("note not found")

	ErrPlanLimitReached = errors.New("free plan limit reached")
	ErrAlreadyOnPlan    = errors.New("tenant is already on the target plan")
)

// PlanLimitMessage is the user-facing text returned when a free tenant hits
// the note ceiling.
const PlanLimitMessage = "Free plan limit reached. Maximum 3 notes allowed. Upgrade to Pro for unlimited notes."

// ValidationError reports malformed input and enumerates the failing fields.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Fields, ", "))
}

// NewValidationError builds a ValidationError for the given field names.
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}
