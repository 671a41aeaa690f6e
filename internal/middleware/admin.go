package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/aiscribe/aiscribe-backend/internal/config"
	"github.com/aiscribe/aiscribe-backend/internal/dto"
)

// AdminRequired guards support endpoints with a shared admin token. When no
// token is configured the endpoints are disabled entirely.
func AdminRequired(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		supplied := c.Get("X-Admin-Token")
		if cfg.AdminToken == "" || supplied == "" ||
			subtle.ConstantTimeCompare([]byte(supplied), []byte(cfg.AdminToken)) != 1 {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Message: "Admin access required",
			})
		}
		return c.Next()
	}
}
