package handler

import (
	"time"

	"github.com/gofiber/fiber/v3"
)

// GET /api/health
func Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"ok":        true,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}
