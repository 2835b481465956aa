package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/thanhyclinic/schedule_backend/internal/api/http/handler"
)

func (r *Router) registerAuthRoutes(api fiber.Router, h *handler.AuthHandler, authRequired fiber.Handler) {
	group := api.Group("/auth")
	group.Post("/login", h.Login)
	group.Post("/logout", authRequired, h.Logout)
}
