package ports

import (
	"context"

	"github.com/notably/notes-saas/internal/core/domain"
)

// CredentialVerifier resolves a raw bearer credential to an authenticated
// identity. Kept separate from AuthService so alternative schemes (session
// cookies, API keys) can be swapped in without touching middleware or stores.
type CredentialVerifier interface {
	Verify(ctx context.Context, token string) (*domain.Identity, error)
}

// RegisterInput carries the data for onboarding a new tenant with its first
// admin user.
type RegisterInput struct {
	TenantName string
	TenantSlug string
	Email      string
	Password   string
}

// AuthService defines credential issuing and account onboarding.
type AuthService interface {
	CredentialVerifier

	// Login checks the password and returns a signed token plus the user.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Register creates a free-plan tenant and its admin user in one step.
	Register(ctx context.Context, input RegisterInput) (*domain.Tenant, *domain.User, error)
}
