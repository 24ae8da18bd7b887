package routes

import (
	"github.com/anjiri1684/driving_tutor/handlers"
	"github.com/gofiber/fiber/v2"
)

// Setup mounts every route group under /api/v1.
func Setup(app *fiber.App, h *handlers.Handlers, jwtSecret string) {
	api := app.Group("/api/v1")

	AuthRoutes(api, h, jwtSecret)
	PublicRoutes(api, h, jwtSecret)
	InstructorRoutes(api, h, jwtSecret)
	UploadRoutes(api, h, jwtSecret)
	BookingRoutes(api, h, jwtSecret)
	MessagingRoutes(api, h, jwtSecret)
	AdminRoutes(api, h, jwtSecret)
}
