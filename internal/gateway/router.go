package gateway

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// NewRouter builds the gateway's Echo instance. Every /api/users route is a
// pass-through to the user service; the gateway adds no business logic of
// its own.
func NewRouter(p *Proxy) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())

	promRegistry := prometheus.NewRegistry()
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "gateway",
		Registerer: promRegistry,
	}))

	api := e.Group("/api/users")
	api.POST("/register", p.Register)
	api.POST("/login", p.Login)
	api.POST("/logout", p.Logout)
	api.GET("/me", p.Me)
	api.GET("/all", p.ListAll)
	api.PUT("/profile", p.UpdateProfile)
	api.DELETE("/:id", p.Delete)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{promRegistry, prometheus.DefaultGatherer},
	}))

	return e
}
