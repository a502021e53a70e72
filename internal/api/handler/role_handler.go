package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/atom-shop/identity-service/internal/core/domain"
	"github.com/atom-shop/identity-service/internal/core/ports"
	"github.com/atom-shop/identity-service/internal/metrics"
)

// RoleHandler administers roles and their permission sets.
type RoleHandler struct {
	service ports.RoleService
}

func NewRoleHandler(service ports.RoleService) *RoleHandler {
	return &RoleHandler{service: service}
}

// List returns every role with its permissions, or one role when ?name= is set.
//
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        name  query     string  false  "Role name"
// @Success      200   {object}  roleListResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	if name := strings.TrimSpace(c.QueryParam("name")); name != "" {
		role, err := h.service.FindByName(ctx, name)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, roleListResponse{Roles: []*domain.Role{role}})
	}

	roles, err := h.service.List(ctx)
	if err != nil {
		return err
	}
	if roles == nil {
		roles = []*domain.Role{}
	}
	return c.JSON(http.StatusOK, roleListResponse{Roles: roles})
}

// Create adds a role granting the named permissions.
//
// @Summary      Create a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      roleRequest  true  "Role details"
// @Success      201   {object}  domain.Role
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users/roles/add [post]
func (h *RoleHandler) Create(c echo.Context) error {
	var req roleRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	role, err := h.service.Create(c.Request().Context(), toRoleInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, role)
}

// Update replaces the role named by ?name=. Protected roles are rejected.
//
// @Summary      Update a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        name  query     string       true  "Current role name"
// @Param        body  body      roleRequest  true  "New role details"
// @Success      200   {object}  domain.Role
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /users/roles/update [put]
func (h *RoleHandler) Update(c echo.Context) error {
	name := strings.TrimSpace(c.QueryParam("name"))
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name query parameter is required")
	}

	var req roleRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	role, err := h.service.Update(c.Request().Context(), name, toRoleInput(req))
	if err != nil {
		return countRejected(err)
	}
	return c.JSON(http.StatusOK, role)
}

// Delete removes every role named in ?names=. Protected roles are rejected.
//
// @Summary      Delete roles
// @Tags         roles
// @Security     BearerAuth
// @Param        names  query  []string  true  "Role names, repeated or comma separated"  collectionFormat(multi)
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /users/roles/remove [delete]
func (h *RoleHandler) Delete(c echo.Context) error {
	names := queryList(c, "names")
	if len(names) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "names query parameter is required")
	}
	if err := h.service.Delete(c.Request().Context(), names); err != nil {
		return countRejected(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func countRejected(err error) error {
	if errors.Is(err, domain.ErrIllegalOperation) {
		metrics.RoleMutationsRejectedTotal.Inc()
	}
	return err
}
