package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/content-api/internal/api/metrics"
	"github.com/99minutos/content-api/internal/core/security"
)

const (
	bearerPrefix        = "Bearer "
	invalidTokenMessage = "Invalid token"
)

// TokenVerifier verifies a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string, now time.Time) (*security.Claims, error)
}

// AuthConfig configures Authenticate.
type AuthConfig struct {
	// PublicPaths are doublestar patterns (e.g. "/auth/*", "/swagger/**") whose
	// requests bypass header inspection entirely.
	PublicPaths []string
	Now         func() time.Time
	Logger      zerolog.Logger
}

// Authenticate resolves the request principal from the Authorization header.
//
// Public paths pass through untouched. A request without a "Bearer " header
// continues anonymous. A present but invalid token is rejected with 401 and the
// handler is never called. A valid token attaches the principal to the request
// context.
func Authenticate(verifier TokenVerifier, cfg AuthConfig) echo.MiddlewareFunc {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	public := make([]string, 0, len(cfg.PublicPaths))
	for _, p := range cfg.PublicPaths {
		if p = strings.TrimSpace(p); p != "" && doublestar.ValidatePattern(p) {
			public = append(public, p)
		}
	}
	log := cfg.Logger

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if isPublic(public, req.URL.Path) {
				return next(c)
			}

			header := req.Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				return next(c)
			}

			claims, err := verifier.Verify(strings.TrimPrefix(header, bearerPrefix), now())
			if err != nil {
				metrics.TokenRejectionsTotal.Inc()
				log.Debug().
					Str("method", req.Method).
					Str("path", req.URL.Path).
					Msg("bearer token rejected")
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": invalidTokenMessage})
			}

			ctx := security.WithPrincipal(req.Context(), security.PrincipalFromClaims(*claims))
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}

func isPublic(patterns []string, path string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}
