package ports

import (
	"context"

	"github.com/notably/notes-saas/internal/core/domain"
)

// InviteInput carries the data for inviting a user into a tenant. The invited
// account is created with the fixed default credential.
type InviteInput struct {
	TenantID string
	Email    string
	Role     domain.Role
}

// TenantService defines tenant administration use cases. Authorization (role
// and tenant membership) is enforced by middleware before these are reached.
type TenantService interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
	// Upgrade moves a tenant from free to pro. Upgrading an already-pro
	// tenant fails with domain.ErrAlreadyOnPlan rather than succeeding
	// silently.
	Upgrade(ctx context.Context, tenantID string) (*domain.Tenant, error)
	Invite(ctx context.Context, input InviteInput) (*domain.User, error)
}
