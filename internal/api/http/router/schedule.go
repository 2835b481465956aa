package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/thanhyclinic/schedule_backend/internal/api/http/handler"
	"github.com/thanhyclinic/schedule_backend/pkg/authorize"
)

func (r *Router) registerScheduleRoutes(
	api fiber.Router,
	sh *handler.ScheduleHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	// Public
	api.Get("/schedule", sh.GetSchedule)

	// Any signed-in account may maintain slots; purge and seed are admin only.
	admin := api.Group("/admin/slots", authRequired)

	// purge is registered before :id so it is not captured as an id
	admin.Delete("/purge", requirePerm(authorize.ResourceSlot, authorize.ActionPurge), sh.PurgeSlots)
	admin.Post("/seed", requirePerm(authorize.ResourceSchedule, authorize.ActionSeed), sh.SeedWeek)

	admin.Post("/", sh.CreateSlot)
	admin.Put("/:id", sh.UpdateSlot)
	admin.Delete("/:id", sh.DeleteSlot)
}
