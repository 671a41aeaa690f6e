package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/aiscribe/aiscribe-backend/internal/ai"
	"github.com/aiscribe/aiscribe-backend/internal/config"
	"github.com/aiscribe/aiscribe-backend/internal/dto"
	"github.com/aiscribe/aiscribe-backend/internal/handlers"
	"github.com/aiscribe/aiscribe-backend/internal/logging"
	"github.com/aiscribe/aiscribe-backend/internal/mail"
	"github.com/aiscribe/aiscribe-backend/internal/middleware"
	"github.com/aiscribe/aiscribe-backend/internal/routes"
	"github.com/aiscribe/aiscribe-backend/internal/services"
	"github.com/aiscribe/aiscribe-backend/internal/storage"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.SessionSecret == "" {
		slog.Error("SESSION_SECRET environment variable is required")
		os.Exit(1)
	}

	// Storage driver
	var store storage.Storage
	var pinger handlers.Pinger
	var pgLogHandler *logging.PGHandler
	cleanupDone := make(chan struct{})

	switch cfg.StorageDriver {
	case "postgres":
		if cfg.DBPassword == "" {
			slog.Error("DB_PASSWORD environment variable is required for the postgres driver")
			os.Exit(1)
		}
		pg, err := storage.NewPostgresStorage(cfg.DSN())
		if err != nil {
			slog.Error("storage initialization failed", "error", err)
			os.Exit(1)
		}
		store = pg
		pinger = pg

		// Postgres log sink (ERROR+ async batch) + 30-day retention
		pgLogHandler = logging.NewPGHandler(pg.DB())
		slog.SetDefault(slog.New(logging.NewMultiHandler(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
			pgLogHandler,
		)))
		logging.StartCleanup(pg.DB(), cleanupDone)
	default:
		store = storage.NewMemoryStorage()
		slog.Info("using in-memory storage")
	}

	// External collaborators
	generator := ai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIAPIURL, cfg.OpenAIModel, cfg.AITimeout)
	sender := mail.NewSendGridSender(cfg.SendGridAPIKey, cfg.EmailFrom, cfg.EmailFromName)

	// Services
	authService := services.NewAuthService(store, sender, cfg)
	contentService := services.NewContentService(store, generator, cfg)

	// Sessions
	sessions := middleware.NewSessionStore(cfg)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, sessions)
	toolHandler := handlers.NewToolHandler(contentService)
	generationHandler := handlers.NewGenerationHandler(contentService)
	healthHandler := handlers.NewHealthHandler(pinger)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: middleware.CookieEncryptionKey(cfg.SessionSecret),
	}))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, store, sessions, authHandler, toolHandler, generationHandler, healthHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "storage", cfg.StorageDriver)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	if pgLogHandler != nil {
		pgLogHandler.Stop()
	}
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{Message: message})
}
