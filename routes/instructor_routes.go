package routes

import (
	"github.com/anjiri1684/driving_tutor/handlers"
	"github.com/anjiri1684/driving_tutor/middleware"
	"github.com/gofiber/fiber/v2"
)

// InstructorRoutes guards each route individually: a group-level Use on
// "/instructor" would also match the public "/instructors" prefix.
func InstructorRoutes(api fiber.Router, h *handlers.Handlers, secret string) {
	guard := []fiber.Handler{middleware.Protected(secret), middleware.InstructorRequired()}
	with := func(handler fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, guard...), handler)
	}

	profile := api.Group("/instructor/profile/me")
	profile.Get("", with(h.GetMyProfile)...)
	profile.Put("", with(h.SaveMyProfile)...)
	profile.Post("/documents/:docType", with(h.UploadDocument)...)
	profile.Post("/avatar", with(h.UploadAvatar)...)
	profile.Post("/vehicle-photo", with(h.UploadVehiclePhoto)...)

	slots := api.Group("/instructor/slots")
	slots.Get("", with(h.GetMyAgenda)...)
	slots.Post("", with(h.CreateSlot)...)
	slots.Post("/:slotId/confirm", with(h.ConfirmSlot)...)
	slots.Delete("/:slotId", with(h.DeleteSlot)...)
}
