package routes

import (
	"github.com/anjiri1684/driving_tutor/handlers"
	"github.com/anjiri1684/driving_tutor/middleware"
	"github.com/gofiber/fiber/v2"
)

func PublicRoutes(api fiber.Router, h *handlers.Handlers, secret string) {
	instructors := api.Group("/instructors", middleware.OptionalAuth(secret))
	instructors.Get("", h.SearchInstructors)
	instructors.Get("/:instructorId", h.GetInstructorDetail)
	instructors.Get("/:instructorId/slots", h.GetOpenSlots)
}
