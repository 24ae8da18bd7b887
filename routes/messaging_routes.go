package routes

import (
	"github.com/anjiri1684/driving_tutor/handlers"
	"github.com/anjiri1684/driving_tutor/middleware"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func MessagingRoutes(api fiber.Router, h *handlers.Handlers, secret string) {
	protected := middleware.Protected(secret)
	api.Get("/slots/:slotId/messages", protected, h.GetMessages)
	api.Post("/slots/:slotId/messages", protected, h.SendMessage)

	// The socket authenticates with its first frame.
	api.Get("/slots/:slotId/chat/ws", handlers.RequireUpgrade, websocketcontrib.New(h.ChatSocket))
}
