// Package app assembles the HTTP surface: middleware, routes and the root health check.
package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"catalog/internal/database"
	"catalog/internal/handlers"
	"catalog/internal/middleware"
	"catalog/internal/repositories"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Status values reported by GET /health.
const (
	StatusHealthy  = "healthy"
	StatusUp       = "up"
	StatusDown     = "down"
	StatusMemory   = "memory"
	StatusEnabled  = "enabled"
	StatusDisabled = "disabled"
)

// Deps is everything the HTTP surface needs.
type Deps struct {
	Users    repositories.UserRepository
	Products repositories.ProductRepository

	// Publisher may be nil, in which case no events are sent.
	Publisher services.EventPublisher

	// DB is only used by the health check. Nil means the repositories are in memory.
	DB *gorm.DB

	// JWTSecret enables bearer-token auth on /api when non-empty.
	JWTSecret string

	// AccessLog turns on Fiber's request logger.
	AccessLog bool

	Log zerolog.Logger
}

// New builds the Fiber application.
func New(deps Deps) *fiber.App {
	log := deps.Log

	app := fiber.New(fiber.Config{
		AppName:               "catalog",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(log),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	if deps.AccessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		}))
	}

	app.Get("/health", healthHandler(deps))

	api := app.Group("/api")
	if deps.JWTSecret != "" {
		api.Use(middleware.AuthRequired(middleware.AuthConfig{
			Secret: deps.JWTSecret,
			Skip:   isHealthPath,
			Log:    log,
		}))
	}

	userService := services.NewUserService(deps.Users, deps.Publisher, log)
	productService := services.NewProductService(deps.Products, deps.Publisher, log)

	handlers.NewAPIHandler().RegisterRoutes(api)
	handlers.NewUserHandler(userService, log).RegisterRoutes(api)
	handlers.NewProductHandler(productService, log).RegisterRoutes(api)

	return app
}

func isHealthPath(c *fiber.Ctx) bool {
	return strings.HasSuffix(c.Path(), "/health")
}

// errorHandler answers errors that escape the handlers, such as unknown routes and panics.
// Only *fiber.Error messages reach the client.
func errorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := utils.StatusMessage(code)
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}
		if code >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		}
		return c.Status(code).JSON(fiber.Map{"message": message})
	}
}

func healthHandler(deps Deps) fiber.Handler {
	events := StatusDisabled
	if deps.Publisher != nil {
		events = StatusEnabled
	}

	return func(c *fiber.Ctx) error {
		db := StatusMemory
		if deps.DB != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), database.PingTimeout)
			defer cancel()
			db = StatusUp
			if err := database.Ping(ctx, deps.DB); err != nil {
				deps.Log.Warn().Err(err).Msg("database health check failed")
				db = StatusDown
			}
		}

		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   StatusHealthy,
			"time":     time.Now().Format(time.RFC3339),
			"database": db,
			"events":   events,
		})
	}
}
