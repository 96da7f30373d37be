package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/haulmatic/user-directory/docs"
	"github.com/haulmatic/user-directory/internal/api/handler"
	"github.com/haulmatic/user-directory/internal/api/middleware"
	"github.com/haulmatic/user-directory/internal/core/ports"
)

// Dependencies groups everything the router needs to wire its handlers.
type Dependencies struct {
	AuthService ports.AuthService
	UserService ports.UserService
	Tokens      ports.TokenCodec
	// Checks are pinged by the readiness probe.
	Checks []handler.DependencyCheck
	// Registerer enables request metrics and GET /metrics when set.
	// Gatherer defaults to prometheus.DefaultGatherer.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
	Logger     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	if deps.Registerer != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  "userdir",
			Registerer: deps.Registerer,
		}))
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: deps.Gatherer,
		}))
	}

	authHandler := handler.NewAuthHandler(deps.AuthService)
	userHandler := handler.NewUserHandler(deps.UserService)
	authMiddleware := middleware.Auth(deps.Tokens)

	// --- Auth routes ---
	e.POST("/login", authHandler.Login)

	// --- User routes ---
	users := e.Group("/users", authMiddleware)
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create, middleware.RequireAdmin())
	users.PUT("/:id", userHandler.Update, middleware.RequireAdmin())
	users.DELETE("/:id", userHandler.Delete, middleware.RequireAdmin())

	// --- Health probes (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(deps.Checks...).Readiness)

	// --- API docs ---
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
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
