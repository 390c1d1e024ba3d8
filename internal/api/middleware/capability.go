package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/content-api/internal/api/metrics"
	"github.com/99minutos/content-api/internal/core/security"
)

// Require gates a route on the capability tier. It must run after Authenticate.
// Anonymous callers on a non-public route get domain.ErrUnauthenticated, callers
// below the tier get domain.ErrForbidden.
func Require(policy security.Policy, required security.Capability) echo.MiddlewareFunc {
	capability := required.String()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d := policy.RequireCapability(security.PrincipalFrom(c.Request().Context()), required)
			metrics.AuthzDecisionsTotal.WithLabelValues(capability, string(d.Reason)).Inc()
			if err := d.Err(""); err != nil {
				return err
			}
			return next(c)
		}
	}
}
