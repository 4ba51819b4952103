package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/notably/notes-saas/internal/core/domain"
	"github.com/notably/notes-saas/internal/core/ports"
)

// NoteService implements tenant-scoped note CRUD with plan-limit enforcement.
type NoteService struct {
	notes   ports.NoteRepository
	tenants ports.TenantRepository
	log     zerolog.Logger
}

func NewNoteService(notes ports.NoteRepository, tenants ports.TenantRepository, log zerolog.Logger) *NoteService {
	return &NoteService{notes: notes, tenants: tenants, log: log}
}

// Create validates input, checks the tenant's plan ceiling, and inserts the
// note. The count-then-insert sequence is not atomic: two concurrent creates
// can push a free tenant past the limit. Accepted best-effort behavior.
func (s *NoteService) Create(ctx context.Context, input ports.CreateNoteInput) (*domain.Note, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)

	var bad []string
	if title == "" {
		bad = append(bad, "title")
	}
	if content == "" {
		bad = append(bad, "content")
	}
	if len(bad) > 0 {
		return nil, domain.NewValidationError(bad...)
	}

	tenant, err := s.tenants.FindByID(ctx, input.TenantID)
	if err != nil {
		return nil, err
	}

	if tenant.Plan == domain.PlanFree {
		count, err := s.notes.CountByTenant(ctx, input.TenantID)
		if err != nil {
			return nil, err
		}
		if !tenant.CanCreateNote(count) {
			s.log.Info().Str("tenant_id", tenant.ID).Int64("count", count).Msg("note creation blocked by plan limit")
			return nil, domain.ErrPlanLimitReached
		}
	}

	note, err := s.notes.Create(ctx, &domain.Note{
		Title:    title,
		Content:  content,
		TenantID: input.TenantID,
		UserID:   input.UserID,
	})
	if err != nil {
		s.log.Error().Err(err).Str("tenant_id", input.TenantID).Msg("failed to create note")
		return nil, err
	}

	return note, nil
}

func (s *NoteService) List(ctx context.Context, tenantID string) ([]*domain.Note, error) {
	return s.notes.ListByTenant(ctx, tenantID)
}

func (s *NoteService) Get(ctx context.Context, tenantID, noteID string) (*domain.Note, error) {
	return s.notes.FindByID(ctx, tenantID, noteID)
}

// Update applies a partial patch. Empty patch fields are ignored rather than
// clearing the stored value.
func (s *NoteService) Update(ctx context.Context, tenantID, noteID string, patch domain.NotePatch) (*domain.Note, error) {
	patch.Title = strings.TrimSpace(patch.Title)
	patch.Content = strings.TrimSpace(patch.Content)

	if patch.Empty() {
		// Nothing to change; still verify the note is addressable so the
		// caller gets NotFound for foreign-tenant ids.
		return s.notes.FindByID(ctx, tenantID, noteID)
	}

	note, err := s.notes.Update(ctx, tenantID, noteID, patch)
	if err != nil {
		if !errors.Is(err, domain.ErrNoteNotFound) {
			s.log.Error().Err(err).Str("note_id", noteID).Msg("failed to update note")
		}
		return nil, err
	}
	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, tenantID, noteID string) error {
	return s.notes.Delete(ctx, tenantID, noteID)
}
