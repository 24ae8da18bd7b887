package routes

import (
	"github.com/anjiri1684/driving_tutor/handlers"
	"github.com/anjiri1684/driving_tutor/middleware"
	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(api fiber.Router, h *handlers.Handlers, secret string) {
	student := middleware.StudentRequired()
	protected := middleware.Protected(secret)

	api.Post("/slots/:slotId/request", protected, student, h.RequestSlot)
	api.Post("/slots/:slotId/review", protected, student, h.SubmitReview)
	api.Get("/lessons/me", protected, student, h.GetMyLessons)
}
