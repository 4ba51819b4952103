package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/notably/notes-saas/internal/api/metrics"
	"github.com/notably/notes-saas/internal/core/domain"
	"github.com/notably/notes-saas/internal/core/ports"
)

// TenantHandler handles tenant info, plan upgrade, and user invites. Routes
// are guarded by the tenant-membership middleware, and the admin-only ones by
// the role middleware; handlers act on the caller's own tenant id.
type TenantHandler struct {
	service ports.TenantService
}

func NewTenantHandler(service ports.TenantService) *TenantHandler {
	return &TenantHandler{service: service}
}

type inviteRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,oneof=admin member"`
}

type upgradeResponse struct {
	Message string         `json:"message"`
	Tenant  *domain.Tenant `json:"tenant"`
}

type inviteResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

// Get handles GET /tenants/:slug.
//
// @Summary      Get tenant info
// @Tags         tenants
// @Produce      json
// @Security     BearerAuth
// @Param        slug  path      string  true  "Tenant slug"
// @Success      200   {object}  domain.Tenant
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /tenants/{slug} [get]
func (h *TenantHandler) Get(c echo.Context) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}

	tenant, err := h.service.GetBySlug(c.Request().Context(), identity.Tenant.Slug)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tenant)
}

// Upgrade handles POST /tenants/:slug/upgrade. Admin only.
//
// @Summary      Upgrade the tenant from free to pro
// @Tags         tenants
// @Produce      json
// @Security     BearerAuth
// @Param        slug  path      string  true  "Tenant slug"
// @Success      200   {object}  upgradeResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /tenants/{slug}/upgrade [post]
func (h *TenantHandler) Upgrade(c echo.Context) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}

	tenant, err := h.service.Upgrade(c.Request().Context(), identity.Tenant.ID)
	if err != nil {
		return err
	}

	metrics.TenantsUpgradedTotal.Inc()
	return c.JSON(http.StatusOK, upgradeResponse{
		Message: "tenant upgraded to Pro plan",
		Tenant:  tenant,
	})
}

// Invite handles POST /tenants/:slug/invite. Admin only.
//
// @Summary      Invite a user into the tenant
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        slug  path      string         true  "Tenant slug"
// @Param        body  body      inviteRequest  true  "Invitee email and role"
// @Success      201   {object}  inviteResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /tenants/{slug}/invite [post]
func (h *TenantHandler) Invite(c echo.Context) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req inviteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.Invite(c.Request().Context(), ports.InviteInput{
		TenantID: identity.Tenant.ID,
		Email:    req.Email,
		Role:     domain.ParseRole(req.Role),
	})
	if err != nil {
		return err
	}

	metrics.UsersInvitedTotal.Inc()
	return c.JSON(http.StatusCreated, inviteResponse{
		Message: "user invited",
		User:    user,
	})
}
