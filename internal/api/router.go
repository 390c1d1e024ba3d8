package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/content-api/docs"
	"github.com/99minutos/content-api/internal/api/handler"
	"github.com/99minutos/content-api/internal/api/middleware"
	"github.com/99minutos/content-api/internal/core/ports"
	"github.com/99minutos/content-api/internal/core/security"
)

// Deps holds everything the HTTP layer needs. Services are already wired to
// their repositories.
type Deps struct {
	Tokens      middleware.TokenVerifier
	Policy      security.Policy
	PublicPaths []string

	Auth  ports.AuthService
	Users ports.UserService
	Posts ports.PostService

	// Checks feeds the readiness probe, keyed by dependency name.
	Checks map[string]handler.DependencyCheck

	// Registry receives the HTTP request metrics. A fresh registry is used when nil.
	Registry *prometheus.Registry

	Logger zerolog.Logger
	Now    func() time.Time
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: reg,
	}))
	e.Use(middleware.Authenticate(d.Tokens, middleware.AuthConfig{
		PublicPaths: d.PublicPaths,
		Now:         d.Now,
		Logger:      d.Logger,
	}))

	authenticated := middleware.Require(d.Policy, security.CapabilityAuthenticated)
	admin := middleware.Require(d.Policy, security.CapabilityAdmin)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Users ---
	userHandler := handler.NewUserHandler(d.Users)
	postHandler := handler.NewPostHandler(d.Posts)

	users := e.Group("/users")
	users.POST("", userHandler.Create, admin)
	users.GET("", userHandler.List, admin)
	users.GET("/email/:email", userHandler.FindByEmail, admin)
	users.GET("/age/:age", userHandler.FindByAge, authenticated)
	users.GET("/age-above/:age", userHandler.FindByAgeAbove, authenticated)
	users.GET("/:id", userHandler.Get, authenticated)
	users.PUT("/:id", userHandler.Update, authenticated)
	users.DELETE("/:id", userHandler.Delete, authenticated)
	users.POST("/:id/posts", postHandler.Create, authenticated)
	users.GET("/:id/posts", postHandler.ListByUser)

	// --- Posts (public reads) ---
	e.GET("/posts", postHandler.List)
	e.GET("/posts/title/:title", postHandler.FindByTitle)
	e.GET("/posts/search/:keyword", postHandler.Search)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler(d.Checks)
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(
		prometheus.Gatherers{prometheus.DefaultGatherer, reg},
		promhttp.HandlerOpts{},
	)))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger emits one structured zerolog entry per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
