package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/notably/notes-saas/internal/core/domain"
	"github.com/notably/notes-saas/internal/core/ports"
)

// TenantService implements tenant administration: info, plan upgrade, invites.
type TenantService struct {
	tenants ports.TenantRepository
	users   ports.UserRepository
	log     zerolog.Logger
}

func NewTenantService(tenants ports.TenantRepository, users ports.UserRepository, log zerolog.Logger) *TenantService {
	return &TenantService{tenants: tenants, users: users, log: log}
}

func (s *TenantService) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	return s.tenants.FindBySlug(ctx, slug)
}

// Upgrade moves the tenant from free to pro. The transition is one-way and
// repeating it is a reportable failure, not a silent no-op.
func (s *TenantService) Upgrade(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if tenant.Plan == domain.PlanPro {
		return nil, domain.ErrAlreadyOnPlan
	}

	if err := s.tenants.UpdatePlan(ctx, tenant.ID, domain.PlanPro); err != nil {
		s.log.Error().Err(err).Str("tenant_id", tenant.ID).Msg("failed to upgrade tenant")
		return nil, err
	}
	tenant.Plan = domain.PlanPro

	s.log.Info().Str("tenant_slug", tenant.Slug).Msg("tenant upgraded to pro")
	return tenant, nil
}

// Invite creates a user inside the tenant with the fixed default credential.
// Email uniqueness is global: an address used in any tenant blocks the invite.
func (s *TenantService) Invite(ctx context.Context, input ports.InviteInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, domain.NewValidationError("email")
	}

	role := input.Role
	if !role.Valid() {
		role = domain.RoleMember
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(domain.DefaultInvitePassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		TenantID:     input.TenantID,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("tenant_id", input.TenantID).Str("user_id", user.ID).Str("role", string(role)).Msg("user invited")
	return user, nil
}
