package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/multidisease/platform-api/internal/api/handler"
	"github.com/multidisease/platform-api/internal/api/middleware"
	"github.com/multidisease/platform-api/internal/core/domain"
	"github.com/multidisease/platform-api/internal/core/ports"
	"github.com/multidisease/platform-api/internal/pkg/config"
)

// Options carries everything NewRouter needs. LoginLimiter and the metrics
// registry are optional.
type Options struct {
	Config              *config.Config
	Log                 zerolog.Logger
	Authenticator       ports.Authenticator
	AuthService         ports.AuthService
	OrganizationService ports.OrganizationService
	LoginLimiter        middleware.Limiter
	Checks              []handler.DependencyCheck

	// MetricsRegisterer enables the HTTP metrics middleware and the /metrics
	// endpoint when set.
	MetricsRegisterer prometheus.Registerer
	MetricsGatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(opts Options) *echo.Echo {
	cfg, log := opts.Config, opts.Log

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins(),
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, "Accept-Language"},
		AllowCredentials: true,
	}))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.Gzip())
	e.Use(echomiddleware.BodyLimit("10M"))

	if opts.MetricsRegisterer != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  "platform",
			Registerer: opts.MetricsRegisterer,
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/metrics"
			},
		}))
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: opts.MetricsGatherer,
		}))
	}

	// --- Dependencies ---
	authenticate := middleware.Authenticate(opts.Authenticator, log)
	superAdmin := middleware.RequireRoles(log, domain.RoleSuperAdmin)

	authHandler := handler.NewAuthHandler(opts.AuthService)
	userHandler := handler.NewUserHandler(opts.AuthService)
	orgHandler := handler.NewOrganizationHandler(opts.OrganizationService)
	healthHandler := handler.NewHealthHandler(cfg.Env, cfg.AppVersion)
	readinessHandler := handler.NewReadinessHandler(log, opts.Checks...)

	// --- Health probes and docs (no auth required) ---
	e.GET("/health", healthHandler.Liveness)           // liveness
	e.GET("/health/ready", readinessHandler.Readiness) // readiness
	e.GET("/docs/*", echoSwagger.WrapHandler)

	apiGroup := e.Group("/api")
	apiGroup.GET("/version", healthHandler.Version)

	// --- Auth routes ---
	authGroup := apiGroup.Group("/auth")
	if opts.LoginLimiter != nil {
		authGroup.Use(middleware.RateLimit(opts.LoginLimiter, "auth", log))
	}
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", authHandler.Logout)

	// --- Users ---
	users := apiGroup.Group("/users", authenticate)
	users.GET("/me", userHandler.Me)
	users.GET("/roles", userHandler.Roles)
	users.POST("", userHandler.Create, superAdmin)

	// --- Organizations ---
	orgs := apiGroup.Group("/organizations", authenticate)
	orgs.GET("", orgHandler.List)
	orgs.POST("", orgHandler.Create, superAdmin)
	orgs.GET("/service-desks", orgHandler.ServiceDesks, superAdmin)
	orgs.GET("/:id", orgHandler.Get)
	orgs.PUT("/:id", orgHandler.Update, superAdmin)

	return e
}
