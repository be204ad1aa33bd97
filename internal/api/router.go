package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pairprep/identity/internal/api/handler"
	"github.com/pairprep/identity/internal/api/middleware"
	"github.com/pairprep/identity/internal/core/ports"
	"github.com/pairprep/identity/internal/token"
)

// Deps carries everything the user-service router needs wired in.
type Deps struct {
	Codec         *token.Codec
	AuthService   ports.AuthService
	UserService   ports.UserService
	Audit         ports.AuditRecorder
	Mongo         *mongo.Database
	Redis         *redis.Client
	Log           zerolog.Logger
	CookieTTL     time.Duration
	SecureCookies bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())

	// Request metrics live in a per-router registry so rebuilding the
	// router (tests do) never trips duplicate registration; /metrics also
	// gathers the default registry carrying the package-level counters.
	promRegistry := prometheus.NewRegistry()
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "identity",
		Registerer: promRegistry,
	}))
	e.Use(middleware.Audit(deps.Audit))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.AuthService, deps.CookieTTL, deps.SecureCookies)
	userHandler := handler.NewUserHandler(deps.UserService)
	authenticate := middleware.Auth(deps.Codec)
	adminOnly := middleware.RequireRole("admin")

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)

	// --- User routes ---
	users := e.Group("/users", authenticate)
	users.GET("/me", userHandler.Me)
	users.PUT("/profile", userHandler.UpdateProfile)
	users.GET("/", userHandler.List, adminOnly)
	users.DELETE("/:id", userHandler.Delete, adminOnly)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{promRegistry, prometheus.DefaultGatherer},
	}))

	return e
}
