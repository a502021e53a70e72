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

// ResetHandler runs the two halves of the password reset flow. The token is
// only ever delivered by email, never in a response.
type ResetHandler struct {
	service ports.ResetService
}

func NewResetHandler(service ports.ResetService) *ResetHandler {
	return &ResetHandler{service: service}
}

// Request issues a new reset token and emails it to the account owner.
// The account is named by ?username=, ?email= or a JSON {"identifier"}.
//
// @Summary      Request a password reset
// @Tags         password-reset
// @Accept       json
// @Produce      json
// @Param        username  query     string            false  "Username"
// @Param        email     query     string            false  "Email"
// @Param        body      body      resetRequestBody  false  "Username or email"
// @Success      202       {object}  resetAcceptedResponse
// @Failure      400       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Failure      502       {object}  errorResponse
// @Router       /users/pass-reset-request [post]
func (h *ResetHandler) Request(c echo.Context) error {
	ctx := c.Request().Context()
	username := strings.TrimSpace(c.QueryParam("username"))
	email := strings.TrimSpace(c.QueryParam("email"))

	var (
		req *domain.PasswordResetRequest
		err error
	)
	switch {
	case username != "":
		req, err = h.service.RequestResetByUsername(ctx, username)
	case email != "":
		req, err = h.service.RequestResetByEmail(ctx, email)
	default:
		var body resetRequestBody
		if err := bindValid(c, &body); err != nil {
			return err
		}
		identifier := strings.TrimSpace(body.Identifier)
		if identifier == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "username, email or identifier is required")
		}
		req, err = h.service.RequestReset(ctx, identifier)
	}
	if err != nil {
		metrics.PasswordResetRequestsTotal.WithLabelValues(resetResult(err)).Inc()
		return err
	}
	metrics.PasswordResetRequestsTotal.WithLabelValues("issued").Inc()

	return c.JSON(http.StatusAccepted, resetAcceptedResponse{Status: "sent", CreatedAt: req.CreatedAt})
}

// Complete sets a new password for the owner of a reset token.
//
// @Summary      Complete a password reset
// @Tags         password-reset
// @Accept       json
// @Param        body  body  completeResetRequest  true  "Token and new password"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/pass-reset [post]
func (h *ResetHandler) Complete(c echo.Context) error {
	var req completeResetRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	if err := h.service.CompleteReset(c.Request().Context(), strings.ToLower(req.Token), req.Password); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func resetResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrDeliveryFailed):
		return "delivery_failed"
	default:
		return "error"
	}
}
