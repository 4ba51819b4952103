package ports

import (
	"context"

	"github.com/notably/notes-saas/internal/core/domain"
)

// UserRepository defines persistence operations for users.
// Email lookups are global: uniqueness is enforced across all tenants.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// TenantRepository defines persistence operations for tenants.
type TenantRepository interface {
	Create(ctx context.Context, tenant *domain.Tenant) (*domain.Tenant, error)
	FindByID(ctx context.Context, id string) (*domain.Tenant, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
	// UpdatePlan sets the plan of the tenant with the given id.
	UpdatePlan(ctx context.Context, id string, plan domain.Plan) error
}

// NoteRepository defines persistence operations for notes. Every method takes
// the caller's tenant id and must filter by it; a note under another tenant is
// reported as domain.ErrNoteNotFound.
type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) (*domain.Note, error)
	// ListByTenant returns the tenant's notes newest first, each annotated
	// with its author's email.
	ListByTenant(ctx context.Context, tenantID string) ([]*domain.Note, error)
	FindByID(ctx context.Context, tenantID, noteID string) (*domain.Note, error)
	Update(ctx context.Context, tenantID, noteID string, patch domain.NotePatch) (*domain.Note, error)
	Delete(ctx context.Context, tenantID, noteID string) error
	CountByTenant(ctx context.Context, tenantID string) (int64, error)
}
