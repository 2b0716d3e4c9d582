package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/delivery-system/ms-delivery/internal/api/handler"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Health     *handler.HealthHandler
	Readiness  *handler.HealthDependenciesHandler
	Motorcycle *handler.MotorcycleHandler
	Tracking   *handler.TrackingHandler
	Websocket  *handler.WebsocketHandler
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(h Handlers, corsOrigins []string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     corsOrigins,
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddleware("delivery"))

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/health", h.Health.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", h.Readiness.Readiness) // readiness – are dependencies up?

	// --- Motorcycles ---
	m := e.Group("/motorcycles")
	m.GET("/track", h.Tracking.List)
	m.GET("/track/:plate", h.Tracking.Status)
	m.POST("/track/:plate", h.Tracking.Start)
	m.POST("/stop/:plate", h.Tracking.Stop)

	m.GET("", h.Motorcycle.List)
	m.POST("", h.Motorcycle.Create)
	m.GET("/:id", h.Motorcycle.Get)
	m.PUT("/:id", h.Motorcycle.Update)
	m.DELETE("/:id", h.Motorcycle.Delete)

	// --- Live positions ---
	e.GET("/ws/motorcycles/:plate", h.Websocket.Subscribe)

	return e
}
