package server

import (
	"context"
	"strings"

	"studybuddy-be/internal/bootstrap"
	"studybuddy-be/internal/config"
	"studybuddy-be/internal/pkg/serverutils"
	"studybuddy-be/pkg/database"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const Version = "1.0.0"

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.ProjectName,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: serverutils.NewErrorHandler(container.Logger),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     joinOrigins(cfg.App.CorsAllowedOrigins),
		AllowCredentials: len(cfg.App.CorsAllowedOrigins) > 0,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type",
	}))

	// OpenTelemetry tracing middleware (no-op unless a tracer provider is installed)
	app.Use(otelfiber.Middleware())

	s := &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
	s.registerRoutes()
	return s
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	s.container.Logger.Info("SERVER", "Server is running", map[string]interface{}{"port": s.cfg.App.Port})
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerRoutes() {
	s.app.Get("/", s.root)
	s.app.Get("/health", s.health)

	api := s.app.Group(s.cfg.App.ApiPrefix)
	s.container.AuthController.RegisterRoutes(api)
	s.container.UserController.RegisterRoutes(api)
	s.container.ChatController.RegisterRoutes(api)
}

func (s *Server) root(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"message": "Welcome to " + s.cfg.App.ProjectName,
		"version": Version,
		"status":  "running",
	})
}

func (s *Server) health(ctx *fiber.Ctx) error {
	status, dbStatus, code := "healthy", "connected", fiber.StatusOK

	if err := database.Ping(ctx.UserContext(), s.container.DB); err != nil {
		s.container.Logger.Warn("SERVER", "Health check failed", map[string]interface{}{"error": err.Error()})
		status, dbStatus, code = "unhealthy", "disconnected", fiber.StatusServiceUnavailable
	}

	return ctx.Status(code).JSON(fiber.Map{
		"status":      status,
		"database":    dbStatus,
		"environment": s.cfg.App.Environment,
	})
}

func joinOrigins(origins []string) string {
	if len(origins) == 0 {
		return "*"
	}
	return strings.Join(origins, ", ")
}
