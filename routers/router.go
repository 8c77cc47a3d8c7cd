package routers

import (
	"log"

	"kaifacademy/config"
	"kaifacademy/middleware"
	authRoutes "kaifacademy/routers/authRoutes"
	courseRoutes "kaifacademy/routers/courseRoutes"
	userProfileRoutes "kaifacademy/routers/userRoutes"
	"kaifacademy/services"
	"kaifacademy/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// New builds the fiber app with every route of the platform, charging orders through the
// gateway configured in cfg
func New(cfg *config.Config) *fiber.App {
	return NewWithGateway(cfg, utils.NewPaymentGateway(cfg))
}

// NewWithGateway is New with an explicit payment gateway
func NewWithGateway(cfg *config.Config, gateway services.PaymentGateway) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: utils.MaxImageBytes + 1<<20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return middleware.ErrorResponse(c, e.Code, e.Message)
			}
			log.Printf("[HTTP] %s %s: %v", c.Method(), c.Path(), err)
			utils.ReportError(err, map[string]interface{}{"path": c.Path(), "method": c.Method()})
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error!")
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CorsOrigins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization,Idempotency-Key",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Uploaded avatars and thumbnails
	app.Static("/uploads", "./"+utils.UploadDir)

	app.Get("/health", func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "OK", fiber.Map{"env": cfg.Env})
	})

	authRoutes.SetupAuthRoutes(app)
	userProfileRoutes.SetupUserRoutes(app)
	courseRoutes.SetupCourseRoutes(app, gateway)
	courseRoutes.SetupAdminCourseRoutes(app)

	app.Use(func(c *fiber.Ctx) error {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "Route not found!")
	})

	return app
}
