package routes

import (
	"github.com/anjiri1684/driving_tutor/handlers"
	"github.com/anjiri1684/driving_tutor/middleware"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(api fiber.Router, h *handlers.Handlers, secret string) {
	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)

	api.Get("/profile/me", middleware.Protected(secret), h.Me)
}
