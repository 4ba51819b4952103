package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/notably/notes-saas/internal/core/domain"
)

// RequireRole enforces role-based access control on top of Auth.
func RequireRole(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := Identity(c)
			if identity == nil {
				return domain.ErrInvalidToken
			}
			if _, ok := allowed[identity.Role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
