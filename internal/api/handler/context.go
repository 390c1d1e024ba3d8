package handler

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/content-api/internal/core/security"
)

// principal returns the caller resolved by the Authenticate middleware, or nil
// for an anonymous request. Services decide what anonymous may do.
func principal(c echo.Context) *security.Principal {
	return security.PrincipalFrom(c.Request().Context())
}

// bindAndValidate decodes the request body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(req)
}

// pathParam returns the named path parameter with percent-escapes decoded.
func pathParam(c echo.Context, name string) string {
	raw := c.Param(name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
