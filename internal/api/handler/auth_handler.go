package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/notably/notes-saas/internal/api/metrics"
	"github.com/notably/notes-saas/internal/core/domain"
	"github.com/notably/notes-saas/internal/core/ports"
)

// LoginThrottle limits login attempts per caller key. The Redis-backed
// implementation lives in infrastructure; a nil throttle disables limiting.
type LoginThrottle interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// AuthHandler handles registration and login.
type AuthHandler struct {
	authService ports.AuthService
	throttle    LoginThrottle
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, throttle LoginThrottle, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, throttle: throttle, log: log}
}

type registerRequest struct {
	TenantName string `json:"tenant_name" validate:"required"`
	TenantSlug string `json:"tenant_slug" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token  string         `json:"token,omitempty"`
	User   *domain.User   `json:"user,omitempty"`
	Tenant *domain.Tenant `json:"tenant,omitempty"`
}

// Register onboards a new tenant with its first admin user.
//
// @Summary      Register a new tenant and admin user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Tenant and admin details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tenant, user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		TenantName: req.TenantName,
		TenantSlug: req.TenantSlug,
		Email:      req.Email,
		Password:   req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{User: user, Tenant: tenant})
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if h.throttle != nil {
		ok, err := h.throttle.Allow(c.Request().Context(), req.Email)
		if err != nil {
			// Fail open: a throttle outage must not lock everyone out.
			h.log.Warn().Err(err).Msg("login throttle check failed")
		}
		if !ok {
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts, try again later")
		}
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		// A missing account and a wrong password look identical to the
		// caller; no account enumeration through status codes.
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidCredentials
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}
