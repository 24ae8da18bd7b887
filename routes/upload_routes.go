package routes

import (
	"github.com/anjiri1684/driving_tutor/handlers"
	"github.com/anjiri1684/driving_tutor/middleware"
	"github.com/gofiber/fiber/v2"
)

func UploadRoutes(api fiber.Router, h *handlers.Handlers, secret string) {
	uploads := api.Group("/uploads", middleware.Protected(secret), middleware.InstructorRequired())
	uploads.Get("/signature", h.UploadSignature)
}
