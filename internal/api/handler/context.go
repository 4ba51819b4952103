package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/notably/notes-saas/internal/api/middleware"
	"github.com/notably/notes-saas/internal/core/domain"
)

// callerIdentity extracts the identity injected by the Auth middleware and
// fast-fails before any service call when it is missing; presence proves the
// middleware ran on this route.
func callerIdentity(c echo.Context) (*domain.Identity, error) {
	identity := middleware.Identity(c)
	if identity == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return identity, nil
}
