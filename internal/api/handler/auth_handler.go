package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atom-shop/identity-service/internal/core/domain"
	"github.com/atom-shop/identity-service/internal/core/ports"
	"github.com/atom-shop/identity-service/internal/metrics"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Authenticate exchanges credentials for a signed bearer token.
//
// @Summary      Authenticate
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authenticateRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /users/authenticate [post]
func (h *AuthHandler) Authenticate(c echo.Context) error {
	var req authenticateRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	token, principal, err := h.authService.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			metrics.AuthAttemptsTotal.WithLabelValues("rejected").Inc()
		} else {
			metrics.AuthAttemptsTotal.WithLabelValues("error").Inc()
		}
		return err
	}
	metrics.AuthAttemptsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, toAuthResponse(token, principal))
}
