package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/notably/notes-saas/internal/api/handler"
	"github.com/notably/notes-saas/internal/api/middleware"
	"github.com/notably/notes-saas/internal/core/domain"
	"github.com/notably/notes-saas/internal/core/service"
)

// In-memory repositories backing a fully wired Echo app: real services, real
// middleware, real error handler. Only the store and Redis are stubbed out.

type memUserRepo struct {
	seq   int
	users map[string]*domain.User
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	clone := *user
	clone.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[clone.ID] = &clone
	cp := clone
	return &cp, nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type memTenantRepo struct {
	seq     int
	tenants map[string]*domain.Tenant
}

func (r *memTenantRepo) Create(_ context.Context, tenant *domain.Tenant) (*domain.Tenant, error) {
	for _, t := range r.tenants {
		if t.Slug == tenant.Slug {
			return nil, domain.ErrTenantExists
		}
	}
	r.seq++
	clone := *tenant
	clone.ID = fmt.Sprintf("tenant-%d", r.seq)
	r.tenants[clone.ID] = &clone
	cp := clone
	return &cp, nil
}

func (r *memTenantRepo) FindByID(_ context.Context, id string) (*domain.Tenant, error) {
	if t, ok := r.tenants[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, domain.ErrTenantNotFound
}

func (r *memTenantRepo) FindBySlug(_ context.Context, slug string) (*domain.Tenant, error) {
	for _, t := range r.tenants {
		if t.Slug == slug {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrTenantNotFound
}

func (r *memTenantRepo) UpdatePlan(_ context.Context, id string, plan domain.Plan) error {
	t, ok := r.tenants[id]
	if !ok {
		return domain.ErrTenantNotFound
	}
	t.Plan = plan
	return nil
}

type memNoteRepo struct {
	seq   int
	notes map[string]*domain.Note
}

func (r *memNoteRepo) Create(_ context.Context, note *domain.Note) (*domain.Note, error) {
	r.seq++
	clone := *note
	clone.ID = fmt.Sprintf("note-%d", r.seq)
	clone.CreatedAt = time.Unix(int64(r.seq), 0).UTC()
	clone.UpdatedAt = clone.CreatedAt
	r.notes[clone.ID] = &clone
	cp := clone
	return &cp, nil
}

func (r *memNoteRepo) ListByTenant(_ context.Context, tenantID string) ([]*domain.Note, error) {
	out := make([]*domain.Note, 0)
	for _, n := range r.notes {
		if n.TenantID == tenantID {
			cp := *n
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memNoteRepo) FindByID(_ context.Context, tenantID, noteID string) (*domain.Note, error) {
	n, ok := r.notes[noteID]
	if !ok || n.TenantID != tenantID {
		return nil, domain.ErrNoteNotFound
	}
	cp := *n
	return &cp, nil
}

func (r *memNoteRepo) Update(_ context.Context, tenantID, noteID string, patch domain.NotePatch) (*domain.Note, error) {
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
	cp := *n
	return &cp, nil
}

func (r *memNoteRepo) Delete(_ context.Context, tenantID, noteID string) error {
	n, ok := r.notes[noteID]
	if !ok || n.TenantID != tenantID {
		return domain.ErrNoteNotFound
	}
	delete(r.notes, noteID)
	return nil
}

func (r *memNoteRepo) CountByTenant(_ context.Context, tenantID string) (int64, error) {
	var n int64
	for _, note := range r.notes {
		if note.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

// newTestApp wires the full HTTP surface against in-memory repositories.
func newTestApp() *echo.Echo {
	log := zerolog.Nop()
	users := &memUserRepo{users: make(map[string]*domain.User)}
	tenants := &memTenantRepo{tenants: make(map[string]*domain.Tenant)}
	notes := &memNoteRepo{notes: make(map[string]*domain.Note)}

	authService := service.NewAuthService(users, tenants, "test-secret", time.Hour, log)
	noteService := service.NewNoteService(notes, tenants, log)
	tenantService := service.NewTenantService(tenants, users, log)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	authHandler := handler.NewAuthHandler(authService, nil, log)
	noteHandler := handler.NewNoteHandler(noteService)
	tenantHandler := handler.NewTenantHandler(tenantService)

	authenticated := middleware.Auth(authService)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)
	sameTenant := middleware.RequireTenant()

	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	ng := e.Group("/notes", authenticated)
	ng.POST("", noteHandler.Create)
	ng.GET("", noteHandler.List)
	ng.GET("/:id", noteHandler.Get)
	ng.PUT("/:id", noteHandler.Update)
	ng.DELETE("/:id", noteHandler.Delete)

	tg := e.Group("/tenants/:slug", authenticated, sameTenant)
	tg.GET("", tenantHandler.Get)
	tg.POST("/upgrade", tenantHandler.Upgrade, adminOnly)
	tg.POST("/invite", tenantHandler.Invite, adminOnly)

	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reqBody *strings.Reader
	if body == "" {
		reqBody = strings.NewReader("")
	} else {
		reqBody = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			// list endpoints return arrays; callers decode those themselves
			return rec, nil
		}
	}
	return rec, out
}

func registerAndLogin(t *testing.T, e *echo.Echo, slug, email string) string {
	t.Helper()
	rec, _ := doJSON(t, e, http.MethodPost, "/auth/register", "",
		fmt.Sprintf(`{"tenant_name":"%s Inc","tenant_slug":"%s","email":"%s","password":"s3cret"}`, slug, slug, email))
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", slug, rec.Code, rec.Body.String())
	}
	return login(t, e, email, "s3cret")
}

func login(t *testing.T, e *echo.Echo, email, password string) string {
	t.Helper()
	rec, body := doJSON(t, e, http.MethodPost, "/auth/login", "",
		fmt.Sprintf(`{"email":"%s","password":"%s"}`, email, password))
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", email, rec.Code, rec.Body.String())
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("login %s: no token in response", email)
	}
	return token
}

func TestEndToEnd_FreeLimitUpgradeFlow(t *testing.T) {
	e := newTestApp()
	token := registerAndLogin(t, e, "acme", "admin@acme.test")

	for i := 1; i <= 3; i++ {
		rec, _ := doJSON(t, e, http.MethodPost, "/notes", token,
			fmt.Sprintf(`{"title":"note %d","content":"body %d"}`, i, i))
		if rec.Code != http.StatusCreated {
			t.Fatalf("create note %d: expected 201, got %d: %s", i, rec.Code, rec.Body.String())
		}
	}

	// 4th note on the free plan hits the ceiling.
	rec, body := doJSON(t, e, http.MethodPost, "/notes", token, `{"title":"four","content":"body"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 on 4th note, got %d", rec.Code)
	}
	if msg, _ := body["error"].(string); !strings.Contains(msg, "limit") {
		t.Fatalf("expected limit message, got %q", msg)
	}

	rec, body = doJSON(t, e, http.MethodPost, "/tenants/acme/upgrade", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("upgrade: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	tenant, _ := body["tenant"].(map[string]any)
	if tenant["plan"] != "pro" {
		t.Fatalf("expected pro plan after upgrade, got %v", tenant["plan"])
	}

	// Plan change is visible on the very next request with the same token.
	rec, _ = doJSON(t, e, http.MethodPost, "/notes", token, `{"title":"four","content":"body"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 after upgrade, got %d: %s", rec.Code, rec.Body.String())
	}

	// Upgrading again is a reportable failure.
	rec, _ = doJSON(t, e, http.MethodPost, "/tenants/acme/upgrade", token, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on repeat upgrade, got %d", rec.Code)
	}
}

func TestEndToEnd_TenantIsolation(t *testing.T) {
	e := newTestApp()
	acmeToken := registerAndLogin(t, e, "acme", "admin@acme.test")
	globexToken := registerAndLogin(t, e, "globex", "admin@globex.test")

	rec, body := doJSON(t, e, http.MethodPost, "/notes", acmeToken, `{"title":"secret","content":"acme only"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", rec.Code)
	}
	noteID, _ := body["id"].(string)

	// Foreign tenant gets 404, indistinguishable from a missing note.
	for _, probe := range []struct{ method, path, payload string }{
		{http.MethodGet, "/notes/" + noteID, ""},
		{http.MethodPut, "/notes/" + noteID, `{"title":"stolen"}`},
		{http.MethodDelete, "/notes/" + noteID, ""},
	} {
		rec, _ := doJSON(t, e, probe.method, probe.path, globexToken, probe.payload)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s %s cross-tenant: expected 404, got %d", probe.method, probe.path, rec.Code)
		}
	}

	// The owner still sees it, unmodified.
	rec, body = doJSON(t, e, http.MethodGet, "/notes/"+noteID, acmeToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("owner get: expected 200, got %d", rec.Code)
	}
	if body["title"] != "secret" {
		t.Fatalf("note mutated cross-tenant: %v", body["title"])
	}

	// Cross-tenant admin block: acme's admin addressing globex's slug.
	rec, _ = doJSON(t, e, http.MethodPost, "/tenants/globex/upgrade", acmeToken, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("cross-tenant upgrade: expected 403, got %d", rec.Code)
	}
}

func TestEndToEnd_AdminOnlyOperations(t *testing.T) {
	e := newTestApp()
	adminToken := registerAndLogin(t, e, "acme", "admin@acme.test")

	rec, _ := doJSON(t, e, http.MethodPost, "/tenants/acme/invite", adminToken, `{"email":"user@acme.test","role":"member"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("invite: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// The invited member logs in with the documented default credential.
	memberToken := login(t, e, "user@acme.test", domain.DefaultInvitePassword)

	rec, _ = doJSON(t, e, http.MethodPost, "/tenants/acme/upgrade", memberToken, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("member upgrade: expected 403, got %d", rec.Code)
	}
	rec, _ = doJSON(t, e, http.MethodPost, "/tenants/acme/invite", memberToken, `{"email":"another@acme.test"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("member invite: expected 403, got %d", rec.Code)
	}

	// Members still create notes in their own tenant.
	rec, _ = doJSON(t, e, http.MethodPost, "/notes", memberToken, `{"title":"mine","content":"body"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("member note create: expected 201, got %d", rec.Code)
	}
}

func TestEndToEnd_GlobalEmailUniqueness(t *testing.T) {
	e := newTestApp()
	acmeToken := registerAndLogin(t, e, "acme", "admin@acme.test")
	globexToken := registerAndLogin(t, e, "globex", "admin@globex.test")

	rec, _ := doJSON(t, e, http.MethodPost, "/tenants/acme/invite", acmeToken, `{"email":"x@y.test"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first invite: expected 201, got %d", rec.Code)
	}

	rec, _ = doJSON(t, e, http.MethodPost, "/tenants/globex/invite", globexToken, `{"email":"x@y.test"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second invite: expected 409, got %d", rec.Code)
	}
}

func TestEndToEnd_ValidationErrorsListFields(t *testing.T) {
	e := newTestApp()
	token := registerAndLogin(t, e, "acme", "admin@acme.test")

	rec, body := doJSON(t, e, http.MethodPost, "/notes", token, `{"title":"","content":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	fields, _ := body["fields"].([]any)
	if len(fields) != 2 {
		t.Fatalf("expected 2 failing fields, got %v", body["fields"])
	}
}

func TestEndToEnd_UnauthenticatedRequests(t *testing.T) {
	e := newTestApp()

	rec, _ := doJSON(t, e, http.MethodGet, "/notes", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", rec.Code)
	}

	rec, _ = doJSON(t, e, http.MethodGet, "/notes", "garbage", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: expected 401, got %d", rec.Code)
	}
}
