package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/aiscribe/aiscribe-backend/internal/dto"
	"github.com/aiscribe/aiscribe-backend/internal/models"
	"github.com/aiscribe/aiscribe-backend/internal/storage"
)

const currentUserKey = "currentUser"

// RequireAuth resolves the session to a user record and attaches it to the
// request context. Handlers downstream read it with CurrentUser — the user
// is always an explicit value, never ambient state.
func RequireAuth(store storage.Storage, sessions *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := sessions.Get(c)
		if err != nil {
			return unauthorized(c)
		}

		userID, ok := sess.Get(SessionUserKey).(int)
		if !ok {
			return unauthorized(c)
		}

		user, err := store.GetUser(userID)
		if err != nil {
			return unauthorized(c)
		}

		c.Locals(currentUserKey, user)
		return c.Next()
	}
}

// RequirePremium gates routes on the paid tier. Must run after RequireAuth.
func RequirePremium() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return unauthorized(c)
		}
		if !user.Premium {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Message: "Premium subscription required",
			})
		}
		return c.Next()
	}
}

// CurrentUser returns the user attached by RequireAuth, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(currentUserKey).(*models.User)
	return user
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Message: "Not authenticated",
	})
}
