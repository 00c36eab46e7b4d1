package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chyrp/internal/service"
)

// GroupHandler handles permission group endpoints.
type GroupHandler struct {
	svc service.GroupService
}

// NewGroupHandler creates a group handler.
func NewGroupHandler(svc service.GroupService) *GroupHandler {
	return &GroupHandler{svc: svc}
}

// CreateGroupRequest represents a new permission group.
type CreateGroupRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Permissions []string `json:"permissions" validate:"dive,required"`
}

// CreateGroup godoc
// @Summary Create a permission group
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateGroupRequest true "Group"
// @Success 201 {object} model.Group
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /groups [post]
func (h *GroupHandler) CreateGroup(c echo.Context) error {
	var req CreateGroupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	group, err := h.svc.Create(c.Request().Context(), authorization(c), req.Name, req.Permissions)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, group)
}

// ListGroups godoc
// @Summary List permission groups
// @Tags groups
// @Produce json
// @Param skip query int false "Offset"
// @Param limit query int false "Page size"
// @Success 200 {array} model.Group
// @Router /groups [get]
func (h *GroupHandler) ListGroups(c echo.Context) error {
	skip, limit := pagination(c)
	groups, err := h.svc.List(c.Request().Context(), skip, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, groups)
}
