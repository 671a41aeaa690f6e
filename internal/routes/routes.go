package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/aiscribe/aiscribe-backend/internal/config"
	"github.com/aiscribe/aiscribe-backend/internal/handlers"
	"github.com/aiscribe/aiscribe-backend/internal/middleware"
	"github.com/aiscribe/aiscribe-backend/internal/storage"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	store storage.Storage,
	sessions *session.Store,
	authHandler *handlers.AuthHandler,
	toolHandler *handlers.ToolHandler,
	generationHandler *handlers.GenerationHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Credential endpoints get a stricter 10 req/min per IP limit
	authLimiter := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})

	requireAuth := middleware.RequireAuth(store, sessions)
	requirePremium := middleware.RequirePremium()

	api.Get("/health", healthHandler.Check)

	// Account lifecycle
	api.Post("/register", authLimiter, authHandler.Register)
	api.Post("/login", authLimiter, authHandler.Login)
	api.Post("/logout", authHandler.Logout)
	api.Get("/user", requireAuth, authHandler.Me)

	// Tool catalog (public)
	api.Get("/tools", toolHandler.List)
	api.Get("/tools/:id", toolHandler.Get)

	// Content generation; the quota gate runs inside the generate path
	api.Post("/generate", requireAuth, generationHandler.Generate)

	// Saved generations (premium history). Delete only needs ownership.
	api.Post("/generations", requireAuth, requirePremium, generationHandler.Save)
	api.Get("/generations", requireAuth, requirePremium, generationHandler.List)
	api.Delete("/generations/:id", requireAuth, generationHandler.Delete)

	api.Post("/upgrade", requireAuth, generationHandler.Upgrade)

	// Password reset (public, stricter limit)
	auth := api.Group("/auth", authLimiter)
	auth.Post("/forgot-password", authHandler.ForgotPassword)
	auth.Get("/verify-reset-token", authHandler.VerifyResetToken)
	auth.Post("/reset-password", authHandler.ResetPassword)

	// Admin support actions (shared-token auth)
	admin := api.Group("/admin", middleware.AdminRequired(cfg))
	admin.Post("/users/:id/reset-generations", generationHandler.ResetGenerations)
}
