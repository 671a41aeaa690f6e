package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/aiscribe/aiscribe-backend/internal/dto"
	"github.com/aiscribe/aiscribe-backend/internal/middleware"
	"github.com/aiscribe/aiscribe-backend/internal/services"
	"github.com/aiscribe/aiscribe-backend/internal/storage"
)

type AuthHandler struct {
	authService *services.AuthService
	sessions    *session.Store
}

func NewAuthHandler(authService *services.AuthService, sessions *session.Store) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Message: "Invalid request body",
		})
	}
	if fieldErrors := dto.Validate(&req); fieldErrors != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Message: "Invalid data", Errors: fieldErrors,
		})
	}

	user, err := h.authService.Register(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrUsernameTaken) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Message: "Username already exists",
			})
		}
		slog.Error("registration failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Message: "Failed to register",
		})
	}

	if err := h.startSession(c, user.ID); err != nil {
		slog.Error("failed to start session", "error", err, "user_id", user.ID)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Message: "Failed to register",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Message: "Invalid request body",
		})
	}
	if fieldErrors := dto.Validate(&req); fieldErrors != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Message: "Invalid data", Errors: fieldErrors,
		})
	}

	user, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Message: "Invalid username or password",
			})
		}
		slog.Error("login failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Message: "Failed to log in",
		})
	}

	if err := h.startSession(c, user.ID); err != nil {
		slog.Error("failed to start session", "error", err, "user_id", user.ID)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Message: "Failed to log in",
		})
	}

	return c.JSON(user)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err == nil {
		if err := sess.Destroy(); err != nil {
			slog.Error("failed to destroy session", "error", err)
		}
	}
	return c.JSON(dto.MessageResponse{Message: "Logged out successfully"})
}

// Me returns the authenticated caller. The password hash is never
// serialized.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentUser(c))
}

// ForgotPassword always answers 200 for known and unknown usernames alike,
// so the endpoint cannot be used to enumerate accounts.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil || req.Username == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Message: "Username is required",
		})
	}

	// Failures past this point (including mail delivery) get the uniform
	// body too: a different status for known usernames would hand back the
	// enumeration signal this endpoint exists to suppress.
	err := h.authService.ForgotPassword(c.Context(), req.Username)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		slog.Error("forgot-password failed", "error", err)
	}

	return c.JSON(dto.MessageResponse{
		Message: "If an account exists with that username, a password reset email has been sent",
	})
}

func (h *AuthHandler) VerifyResetToken(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Message: "Invalid token",
		})
	}

	if err := h.authService.VerifyResetToken(token); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Message: "Invalid or expired token",
		})
	}

	return c.JSON(dto.VerifyTokenResponse{Valid: true})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Message: "Token and new password are required",
		})
	}
	if fieldErrors := dto.Validate(&req); fieldErrors != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Message: "Token and new password are required", Errors: fieldErrors,
		})
	}

	if err := h.authService.ResetPassword(req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, storage.ErrTokenExpired):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Message: "Reset token has expired",
			})
		case errors.Is(err, storage.ErrTokenInvalid):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Message: "Invalid or expired reset token",
			})
		case errors.Is(err, storage.ErrNotFound):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Message: "User not found",
			})
		default:
			slog.Error("reset-password failed", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Message: "An error occurred while resetting your password",
			})
		}
	}

	return c.JSON(dto.MessageResponse{Message: "Password has been reset successfully"})
}

func (h *AuthHandler) startSession(c *fiber.Ctx, userID int) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return err
	}
	sess.Set(middleware.SessionUserKey, userID)
	return sess.Save()
}
