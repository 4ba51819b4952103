package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/notably/notes-saas/internal/core/domain"
)

// In-memory repository stubs mirroring the tenant-scoping contracts of the
// Mongo implementations.

type stubUserRepo struct {
	seq   int
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	clone := *user
	clone.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[clone.ID] = &clone
	copy := clone
	return &copy, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copy := *u
	return &copy, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type stubTenantRepo struct {
	seq     int
	tenants map[string]*domain.Tenant
}

func newStubTenantRepo() *stubTenantRepo {
	return &stubTenantRepo{tenants: make(map[string]*domain.Tenant)}
}

func (r *stubTenantRepo) Create(_ context.Context, tenant *domain.Tenant) (*domain.Tenant, error) {
	for _, t := range r.tenants {
		if t.Slug == tenant.Slug {
			return nil, domain.ErrTenantExists
		}
	}
	r.seq++
	clone := *tenant
	clone.ID = fmt.Sprintf("tenant-%d", r.seq)
	r.tenants[clone.ID] = &clone
	copy := clone
	return &copy, nil
}

func (r *stubTenantRepo) FindByID(_ context.Context, id string) (*domain.Tenant, error) {
	t, ok := r.tenants[id]
	if !ok {
		return nil, domain.ErrTenantNotFound
	}
	copy := *t
	return &copy, nil
}

func (r *stubTenantRepo) FindBySlug(_ context.Context, slug string) (*domain.Tenant, error) {
	for _, t := range r.tenants {
		if t.Slug == slug {
			copy := *t
			return &copy, nil
		}
	}
	return nil, domain.ErrTenantNotFound
}

func (r *stubTenantRepo) UpdatePlan(_ context.Context, id string, plan domain.Plan) error {
	t, ok := r.tenants[id]
	if !ok {
		return domain.ErrTenantNotFound
	}
	t.Plan = plan
	return nil
}

type stubNoteRepo struct {
	seq   int
	notes map[string]*domain.Note
}

func newStubNoteRepo() *stubNoteRepo {
	return &stubNoteRepo{notes: make(map[string]*domain.Note)}
}

func (r *stubNoteRepo) Create(_ context.Context, note *domain.Note) (*domain.Note, error) {
	r.seq++
	clone := *note
	clone.ID = fmt.Sprintf("note-%d", r.seq)
	clone.CreatedAt = time.Unix(int64(r.seq), 0).UTC()
	clone.UpdatedAt = clone.CreatedAt
	r.notes[clone.ID] = &clone
	copy := clone
	return &copy, nil
}

func (r *stubNoteRepo) ListByTenant(_ context.Context, tenantID string) ([]*domain.Note, error) {
	out := make([]*domain.Note, 0)
	for _, n := range r.notes {
		if n.TenantID == tenantID {
			copy := *n
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubNoteRepo) FindByID(_ context.Context, tenantID, noteID string) (*domain.Note, error) {
	n, ok := r.notes[noteID]
	if !ok || n.TenantID != tenantID {
		return nil, domain.ErrNoteNotFound
	}
	copy := *n
	return &copy, nil
}

func (r *stubNoteRepo) Update(_ context.Context, tenantID, noteID string, patch domain.NotePatch) (*domain.Note, error) {
	n, ok := r.notes[noteID]
	if !ok || n.TenantID != tenantID {
		return nil, domain.ErrNoteNotFound
	}
	if patch.Title != "" {
		n.Title = patch.Title
	}
	if patch.Content != "" {
		n.Content = patch.Content
	}
	n.UpdatedAt = n.UpdatedAt.Add(time.Second)
	copy := *n
	return &copy, nil
}

func (r *stubNoteRepo) Delete(_ context.Context, tenantID, noteID string) error {
	n, ok := r.notes[noteID]
	if !ok || n.TenantID != tenantID {
		return domain.ErrNoteNotFound
	}
	delete(r.notes, noteID)
	return nil
}

func (r *stubNoteRepo) CountByTenant(_ context.Context, tenantID string) (int64, error) {
	var n int64
	for _, note := range r.notes {
		if note.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}
