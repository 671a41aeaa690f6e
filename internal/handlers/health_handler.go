package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/aiscribe/aiscribe-backend/internal/dto"
)

// Pinger reports backing-store health. The memory store is always healthy;
// the Postgres store pings the connection pool.
type Pinger interface {
	Ping() error
}

type HealthHandler struct {
	pinger Pinger
}

func NewHealthHandler(pinger Pinger) *HealthHandler {
	return &HealthHandler{pinger: pinger}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	storageStatus := "ok"
	if h.pinger != nil {
		if err := h.pinger.Ping(); err != nil {
			storageStatus = "unhealthy: " + err.Error()
		}
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Storage:   storageStatus,
	})
}
