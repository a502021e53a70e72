package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/atom-shop/identity-service/internal/core/domain"
	"github.com/atom-shop/identity-service/internal/core/policy"
	"github.com/atom-shop/identity-service/internal/metrics"
)

// Access enforces the route table after Auth has run. Routes are matched by
// method and echo route pattern (c.Path()).
func Access(table *policy.Table, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := Principal(c)
			err := table.Authorize(c.Request().Method, c.Path(), p)
			switch {
			case err == nil:
				metrics.AccessDecisionsTotal.WithLabelValues("allowed").Inc()
				return next(c)
			case errors.Is(err, domain.ErrForbidden):
				metrics.AccessDecisionsTotal.WithLabelValues("forbidden").Inc()
				log.Info().
					Str("username", p.Username).
					Str("method", c.Request().Method).
					Str("path", c.Path()).
					Msg("access denied")
			default:
				metrics.AccessDecisionsTotal.WithLabelValues("unauthenticated").Inc()
			}
			return err
		}
	}
}
