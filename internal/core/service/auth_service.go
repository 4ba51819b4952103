package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/notably/notes-saas/internal/core/domain"
	"github.com/notably/notes-saas/internal/core/ports"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// AuthService implements login, tenant onboarding, and token verification.
// Tokens carry only the user id; tenant state is looked up fresh on every
// Verify so plan changes apply on the next request.
type AuthService struct {
	users     ports.UserRepository
	tenants   ports.TenantRepository
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tenants ports.TenantRepository, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:     users,
		tenants:   tenants,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("tenant_id", user.TenantID).Msg("user logged in")
	return token, user, nil
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.Tenant, *domain.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.TenantSlug = strings.ToLower(strings.TrimSpace(input.TenantSlug))
	input.TenantName = strings.TrimSpace(input.TenantName)

	var bad []string
	if input.TenantName == "" {
		bad = append(bad, "tenant_name")
	}
	if !slugPattern.MatchString(input.TenantSlug) {
		bad = append(bad, "tenant_slug")
	}
	if input.Email == "" {
		bad = append(bad, "email")
	}
	if input.Password == "" {
		bad = append(bad, "password")
	}
	if len(bad) > 0 {
		return nil, nil, domain.NewValidationError(bad...)
	}

	// Email uniqueness is global; reject before creating the tenant so a
	// failed registration leaves no orphan tenant behind.
	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	tenant, err := s.tenants.Create(ctx, &domain.Tenant{
		Slug: input.TenantSlug,
		Name: input.TenantName,
		Plan: domain.PlanFree,
	})
	if err != nil {
		return nil, nil, err
	}

	user, err := s.users.Create(ctx, &domain.User{
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		TenantID:     tenant.ID,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.Info().Str("tenant_slug", tenant.Slug).Str("user_id", user.ID).Msg("tenant registered")
	return tenant, user, nil
}

// Verify parses and validates a bearer token, then resolves the encoded user
// id to a live user and their current tenant.
func (s *AuthService) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	claims := jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	tenant, err := s.tenants.FindByID(ctx, user.TenantID)
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	return &domain.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Tenant: *tenant,
	}, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
