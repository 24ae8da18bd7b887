package routes

import (
	"github.com/anjiri1684/driving_tutor/handlers"
	"github.com/anjiri1684/driving_tutor/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(api fiber.Router, h *handlers.Handlers, secret string) {
	admin := api.Group("/admin", middleware.Protected(secret), middleware.AdminRequired(h.Admins()))
	admin.Get("/instructors/pending", h.ListPendingInstructors)
	admin.Put("/instructors/:instructorId/approval", h.SetInstructorApproval)
}
