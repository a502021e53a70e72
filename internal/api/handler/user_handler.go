package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/atom-shop/identity-service/internal/core/domain"
	"github.com/atom-shop/identity-service/internal/core/ports"
)

// UserHandler serves account registration, lookup and administration.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Register creates an account with the USER role.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      userRequest  true  "Account details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users/add [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req userRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	user, err := h.service.Register(c.Request().Context(), toUserInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Check reports whether a username or an email is already taken.
//
// @Summary      Check username or email availability
// @Tags         users
// @Produce      json
// @Param        username  query     string  false  "Username"
// @Param        email     query     string  false  "Email"
// @Success      200       {object}  existsResponse
// @Failure      400       {object}  errorResponse
// @Router       /users/check [get]
func (h *UserHandler) Check(c echo.Context) error {
	username := strings.TrimSpace(c.QueryParam("username"))
	email := strings.TrimSpace(c.QueryParam("email"))

	var (
		exists bool
		err    error
	)
	switch {
	case username != "" && email != "":
		return echo.NewHTTPError(http.StatusBadRequest, "provide either username or email, not both")
	case username != "":
		exists, err = h.service.UsernameExists(c.Request().Context(), username)
	case email != "":
		exists, err = h.service.EmailExists(c.Request().Context(), email)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "username or email query parameter is required")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, existsResponse{Exists: exists})
}

// Me returns the account of the caller.
//
// @Summary      Current account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, err := h.service.Self(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// List returns every account, or a single one when username or email is given.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username  query     string  false  "Filter by username"
// @Param        email     query     string  false  "Filter by email"
// @Success      200       {object}  userListResponse
// @Failure      401       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		user *domain.User
		err  error
	)
	switch {
	case c.QueryParam("username") != "":
		user, err = h.service.FindByUsername(ctx, c.QueryParam("username"))
	case c.QueryParam("email") != "":
		user, err = h.service.FindByEmail(ctx, c.QueryParam("email"))
	default:
		users, err := h.service.List(ctx)
		if err != nil {
			return err
		}
		if users == nil {
			users = []*domain.User{}
		}
		return c.JSON(http.StatusOK, userListResponse{Users: users})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userListResponse{Users: []*domain.User{user}})
}

// Update replaces the writable fields of the account named by ?username=.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        username  query     string             true  "Current username"
// @Param        body      body      updateUserRequest  true  "New account details"
// @Success      200       {object}  domain.User
// @Failure      400       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Failure      409       {object}  errorResponse
// @Router       /users/update [put]
func (h *UserHandler) Update(c echo.Context) error {
	username := strings.TrimSpace(c.QueryParam("username"))
	if username == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username query parameter is required")
	}

	var req updateUserRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	user, err := h.service.Update(c.Request().Context(), username, toUserUpdateInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete removes every account named in ?usernames=. Nothing is removed when
// any of them is unknown.
//
// @Summary      Delete users
// @Tags         users
// @Security     BearerAuth
// @Param        usernames  query  []string  true  "Usernames, repeated or comma separated"  collectionFormat(multi)
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/remove [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	usernames := queryList(c, "usernames")
	if len(usernames) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "usernames query parameter is required")
	}
	if err := h.service.Delete(c.Request().Context(), usernames); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
