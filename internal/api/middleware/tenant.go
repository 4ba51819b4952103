package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/notably/notes-saas/internal/core/domain"
)

// RequireTenant matches the :slug path parameter against the caller's own
// tenant. A token minted for tenant A can never act on a path addressed with
// tenant B's slug, regardless of role.
func RequireTenant() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := Identity(c)
			if identity == nil {
				return domain.ErrInvalidToken
			}
			if c.Param("slug") != identity.Tenant.Slug {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
