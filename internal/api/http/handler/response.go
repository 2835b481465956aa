package handler

import "github.com/gofiber/fiber/v3"

// Success bodies are wrapped as {"data": ...}; failures as {"error": msg},
// the same envelope the app's ErrorHandler writes.

func ok(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"data": data})
}

func created(c fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": data})
}

func fail(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func badRequest(c fiber.Ctx, msg string) error   { return fail(c, fiber.StatusBadRequest, msg) }
func unauthorized(c fiber.Ctx, msg string) error { return fail(c, fiber.StatusUnauthorized, msg) }
func notFound(c fiber.Ctx, msg string) error     { return fail(c, fiber.StatusNotFound, msg) }
func conflict(c fiber.Ctx, msg string) error     { return fail(c, fiber.StatusConflict, msg) }

func tooManyRequests(c fiber.Ctx, msg string) error {
	return fail(c, fiber.StatusTooManyRequests, msg)
}

func serviceUnavailable(c fiber.Ctx, msg string) error {
	return fail(c, fiber.StatusServiceUnavailable, msg)
}

func internalError(c fiber.Ctx) error {
	return fail(c, fiber.StatusInternalServerError, "internal server error")
}
