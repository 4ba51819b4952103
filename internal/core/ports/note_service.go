package ports

import (
	"context"

	"github.com/notably/notes-saas/internal/core/domain"
)

// CreateNoteInput carries the data for creating a note. TenantID and UserID
// always come from the verified caller identity, never from the request body.
type CreateNoteInput struct {
	TenantID string
	UserID   string
	Title    string
	Content  string
}

// NoteService defines tenant-scoped note use cases. The free-plan note limit
// is enforced on create.
type NoteService interface {
	Create(ctx context.Context, input CreateNoteInput) (*domain.Note, error)
	List(ctx context.Context, tenantID string) ([]*domain.Note, error)
	Get(ctx context.Context, tenantID, noteID string) (*domain.Note, error)
	Update(ctx context.Context, tenantID, noteID string, patch domain.NotePatch) (*domain.Note, error)
	Delete(ctx context.Context, tenantID, noteID string) error
}
