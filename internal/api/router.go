package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/atom-shop/identity-service/internal/api/handler"
	"github.com/atom-shop/identity-service/internal/api/middleware"
	"github.com/atom-shop/identity-service/internal/core/policy"
	"github.com/atom-shop/identity-service/internal/core/ports"
	"github.com/atom-shop/identity-service/internal/infrastructure/http/handlers"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Auth        ports.AuthService
	Users       ports.UserService
	Roles       ports.RoleService
	Permissions ports.PermissionService
	Resets      ports.ResetService

	// Policy defaults to AccessTable().
	Policy *policy.Table
	// Readiness lists the dependencies pinged by /health/ready.
	Readiness map[string]handlers.Pinger
	// Metrics receives the HTTP request metrics and backs /metrics. Nil
	// means the default Prometheus registry.
	Metrics *prometheus.Registry
	Log     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	table := deps.Policy
	if table == nil {
		table = AccessTable()
	}

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Metrics != nil {
		registerer, gatherer = deps.Metrics, deps.Metrics
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "identity",
		Registerer: registerer,
	}))
	e.Use(middleware.Auth(deps.Auth))
	e.Use(middleware.Access(table, deps.Log))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users)
	roleHandler := handler.NewRoleHandler(deps.Roles)
	permissionHandler := handler.NewPermissionHandler(deps.Permissions)
	resetHandler := handler.NewResetHandler(deps.Resets)

	// --- Account routes ---
	e.POST("/users/authenticate", authHandler.Authenticate)
	e.POST("/users/add", userHandler.Register)
	e.GET("/users/check", userHandler.Check)
	e.GET("/users/me", userHandler.Me)
	e.GET("/users", userHandler.List)
	e.PUT("/users/update", userHandler.Update)
	e.DELETE("/users/remove", userHandler.Delete)

	// --- Password reset ---
	e.POST("/users/pass-reset-request", resetHandler.Request)
	e.POST("/users/pass-reset", resetHandler.Complete)

	// --- Roles and permissions ---
	e.GET("/users/roles", roleHandler.List)
	e.POST("/users/roles/add", roleHandler.Create)
	e.PUT("/users/roles/update", roleHandler.Update)
	e.DELETE("/users/roles/remove", roleHandler.Delete)
	e.GET("/users/permissions", permissionHandler.List)

	// --- Health checks (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

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
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
