package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/notably/notes-saas/internal/api/metrics"
	"github.com/notably/notes-saas/internal/core/domain"
	"github.com/notably/notes-saas/internal/core/ports"
)

// NoteHandler handles tenant-scoped note CRUD. The tenant id always comes
// from the verified caller identity, never from the request body.
type NoteHandler struct {
	service ports.NoteService
}

func NewNoteHandler(service ports.NoteService) *NoteHandler {
	return &NoteHandler{service: service}
}

type createNoteRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type updateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Create handles POST /notes.
//
// @Summary      Create a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createNoteRequest  true  "Note contents"
// @Success      201   {object}  domain.Note
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /notes [post]
func (h *NoteHandler) Create(c echo.Context) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req createNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	note, err := h.service.Create(c.Request().Context(), ports.CreateNoteInput{
		TenantID: identity.Tenant.ID,
		UserID:   identity.UserID,
		Title:    req.Title,
		Content:  req.Content,
	})
	if err != nil {
		return err
	}

	metrics.NotesCreatedTotal.WithLabelValues(string(identity.Tenant.Plan)).Inc()
	return c.JSON(http.StatusCreated, note)
}

// List handles GET /notes.
//
// @Summary      List the tenant's notes, newest first
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Note
// @Failure      401  {object}  map[string]string
// @Router       /notes [get]
func (h *NoteHandler) List(c echo.Context) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}

	notes, err := h.service.List(c.Request().Context(), identity.Tenant.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notes)
}

// Get handles GET /notes/:id.
//
// @Summary      Get a note by id
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Note id"
// @Success      200  {object}  domain.Note
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /notes/{id} [get]
func (h *NoteHandler) Get(c echo.Context) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}

	note, err := h.service.Get(c.Request().Context(), identity.Tenant.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, note)
}

// Update handles PUT /notes/:id. Empty fields in the body are ignored, not
// cleared.
//
// @Summary      Update a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Note id"
// @Param        body  body      updateNoteRequest  true  "Fields to change"
// @Success      200   {object}  domain.Note
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /notes/{id} [put]
func (h *NoteHandler) Update(c echo.Context) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req updateNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	note, err := h.service.Update(c.Request().Context(), identity.Tenant.ID, c.Param("id"), domain.NotePatch{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, note)
}

// Delete handles DELETE /notes/:id.
//
// @Summary      Delete a note
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Note id"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /notes/{id} [delete]
func (h *NoteHandler) Delete(c echo.Context) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), identity.Tenant.ID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "note deleted"})
}
