package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/aiscribe/aiscribe-backend/internal/dto"
	"github.com/aiscribe/aiscribe-backend/internal/services"
	"github.com/aiscribe/aiscribe-backend/internal/storage"
)

type ToolHandler struct {
	contentService *services.ContentService
}

func NewToolHandler(contentService *services.ContentService) *ToolHandler {
	return &ToolHandler{contentService: contentService}
}

func (h *ToolHandler) List(c *fiber.Ctx) error {
	tools, err := h.contentService.GetTools()
	if err != nil {
		slog.Error("failed to fetch tools", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Message: "Failed to fetch tools",
		})
	}
	return c.JSON(tools)
}

func (h *ToolHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Message: "Invalid tool ID",
		})
	}

	tool, err := h.contentService.GetTool(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Message: "Tool not found",
			})
		}
		slog.Error("failed to fetch tool", "error", err, "tool_id", id)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Message: "Failed to fetch tool",
		})
	}

	return c.JSON(tool)
}
