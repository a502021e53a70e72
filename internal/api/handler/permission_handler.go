package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atom-shop/identity-service/internal/core/domain"
	"github.com/atom-shop/identity-service/internal/core/ports"
)

type PermissionHandler struct {
	service ports.PermissionService
}

func NewPermissionHandler(service ports.PermissionService) *PermissionHandler {
	return &PermissionHandler{service: service}
}

// List returns every permission, or the ones named in ?names=.
//
// @Summary      List permissions
// @Tags         permissions
// @Produce      json
// @Security     BearerAuth
// @Param        names  query     []string  false  "Permission names"  collectionFormat(multi)
// @Success      200    {object}  permissionListResponse
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /users/permissions [get]
func (h *PermissionHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		perms []domain.Permission
		err   error
	)
	if names := queryList(c, "names"); len(names) > 0 {
		perms, err = h.service.FindByNames(ctx, names)
	} else {
		perms, err = h.service.List(ctx)
	}
	if err != nil {
		return err
	}
	if perms == nil {
		perms = []domain.Permission{}
	}
	return c.JSON(http.StatusOK, permissionListResponse{Permissions: perms})
}
