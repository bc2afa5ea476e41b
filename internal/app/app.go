// Package app assembles the storefront HTTP application.
package app

import (
	"context"
	"time"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/handlers"
	"storefront/internal/metrics"
	"storefront/internal/middleware"
	"storefront/internal/services"
	"storefront/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
)

// New wires services, handlers and middleware over st. publisher may be nil.
func New(cfg *config.Config, st *store.Store, publisher services.OrderEventPublisher) (*fiber.App, error) {
	tokens, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, err
	}

	// --- Services ---
	authService := services.NewAuthService(st.Users, tokens)
	productService := services.NewProductService(st.Products, cfg.Catalog.StrictPatch)
	orderService := services.NewOrderService(st.Orders, publisher)

	// --- Handlers ---
	gate := middleware.NewGate(authService)
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)

	app := fiber.New(fiber.Config{
		AppName:      "storefront",
		ErrorHandler: handlers.ErrorHandler,
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{Output: log.StandardLogger().Out}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.App.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(metrics.Middleware())

	app.Get("/health", healthCheck(st))
	app.Get("/metrics", metrics.Handler())

	// --- API Routes ---
	api := app.Group("/api")
	authHandler.RegisterRoutes(api, limiter.Handler())
	userHandler.RegisterRoutes(api, gate)
	productHandler.RegisterRoutes(api, gate)
	orderHandler.RegisterRoutes(api, gate)

	return app, nil
}

func healthCheck(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			log.WithError(err).Warn("Health check failed")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unhealthy",
				"store":  st.Driver,
				"error":  err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"status": "healthy",
			"store":  st.Driver,
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}
