package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/aiscribe/aiscribe-backend/internal/ai"
	"github.com/aiscribe/aiscribe-backend/internal/dto"
	"github.com/aiscribe/aiscribe-backend/internal/middleware"
	"github.com/aiscribe/aiscribe-backend/internal/services"
	"github.com/aiscribe/aiscribe-backend/internal/storage"
)

type GenerationHandler struct {
	contentService *services.ContentService
}

func NewGenerationHandler(contentService *services.ContentService) *GenerationHandler {
	return &GenerationHandler{contentService: contentService}
}

// Generate invokes a tool against the completion API. The quota gate lives
// inside the service, right where the generation happens.
func (h *GenerationHandler) Generate(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req dto.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Message: "Invalid request body",
		})
	}
	if fieldErrors := dto.Validate(&req); fieldErrors != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Message: "Missing required fields", Errors: fieldErrors,
		})
	}

	resp, err := h.contentService.Generate(c.Context(), user, &req)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Message: "Tool not found",
			})
		case errors.Is(err, storage.ErrQuotaExceeded):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Message: "Daily generation limit reached",
			})
		case errors.Is(err, ai.ErrGenerationFailed):
			slog.Error("content generation failed", "error", err, "user_id", user.ID)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Message: "Failed to generate content",
			})
		default:
			slog.Error("generate failed", "error", err, "user_id", user.ID)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Message: "Failed to generate content",
			})
		}
	}

	return c.JSON(resp)
}

func (h *GenerationHandler) Save(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req dto.SaveGenerationRequest
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

	gen, err := h.contentService.SaveGeneration(user, &req)
	if err != nil {
		slog.Error("failed to save generation", "error", err, "user_id", user.ID)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Message: "Failed to save generation",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(gen)
}

func (h *GenerationHandler) List(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	gens, err := h.contentService.ListGenerations(user.ID)
	if err != nil {
		slog.Error("failed to fetch generations", "error", err, "user_id", user.ID)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Message: "Failed to fetch generations",
		})
	}

	return c.JSON(gens)
}

func (h *GenerationHandler) Delete(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Message: "Invalid generation ID",
		})
	}

	if err := h.contentService.DeleteGeneration(user, id); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Message: "Generation not found",
			})
		case errors.Is(err, services.ErrNotOwner):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Message: "Not authorized to delete this generation",
			})
		default:
			slog.Error("failed to delete generation", "error", err, "user_id", user.ID)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Message: "Failed to delete generation",
			})
		}
	}

	return c.JSON(dto.MessageResponse{Message: "Generation deleted successfully"})
}

func (h *GenerationHandler) Upgrade(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	updated, err := h.contentService.Upgrade(user.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Message: "User not found",
			})
		}
		slog.Error("upgrade failed", "error", err, "user_id", user.ID)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Message: "Failed to process upgrade",
		})
	}

	return c.JSON(dto.UpgradeResponse{Message: "Upgrade successful", User: updated})
}

// ResetGenerations is an admin support action: zero a user's daily counter.
func (h *GenerationHandler) ResetGenerations(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Message: "Invalid user ID",
		})
	}

	user, err := h.contentService.ResetGenerations(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Message: "User not found",
			})
		}
		slog.Error("failed to reset generations", "error", err, "user_id", id)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Message: "Failed to reset generations",
		})
	}

	return c.JSON(user)
}
