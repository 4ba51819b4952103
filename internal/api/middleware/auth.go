package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/notably/notes-saas/internal/core/domain"
	"github.com/notably/notes-saas/internal/core/ports"
)

// identityKey is the echo context key holding the verified caller identity.
const identityKey = "identity"

// Auth extracts the bearer token, resolves it through the verifier, and
// injects the caller identity into the request context. The verifier performs
// a live user and tenant lookup, so deleted users and fresh plan changes are
// reflected immediately.
func Auth(verifier ports.CredentialVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			identity, err := verifier.Verify(c.Request().Context(), parts[1])
			if err != nil {
				if errors.Is(err, domain.ErrInvalidToken) {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				return err
			}

			c.Set(identityKey, identity)
			return next(c)
		}
	}
}

// Identity returns the caller identity injected by Auth, or nil when the
// middleware did not run.
func Identity(c echo.Context) *domain.Identity {
	identity, _ := c.Get(identityKey).(*domain.Identity)
	return identity
}
