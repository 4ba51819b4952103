package domain

import "time"

// Note is a tenant-scoped document. TenantID always equals the tenant of the
// authoring user; every query against notes is filtered by it.
type Note struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	TenantID    string    `json:"tenant_id"`
	UserID      string    `json:"user_id"`
	AuthorEmail string    `json:"author_email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NotePatch is a partial update of a note. Empty fields are left untouched,
// never cleared.
type NotePatch struct {
	Title   string
	Content string
}

// Empty reports whether the patch carries no changes at all.
func (p NotePatch) Empty() bool {
	return p.Title == "" && p.Content == ""
}
