package handlers

import (
	"github.com/gofiber/fiber/v2"
)

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=4000"`
}

func (h *Handlers) GetMessages(c *fiber.Ctx) error {
	p, ok := mustPrincipal(c)
	if !ok {
		return nil
	}
	slotID, ok := mustUUID(c, "slotId")
	if !ok {
		return nil
	}
	msgs, err := h.svc.Chat.History(c.UserContext(), p, slotID)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(msgs)
}

func (h *Handlers) SendMessage(c *fiber.Ctx) error {
	p, ok := mustPrincipal(c)
	if !ok {
		return nil
	}
	slotID, ok := mustUUID(c, "slotId")
	if !ok {
		return nil
	}
	var req SendMessageRequest
	if !h.bind(c, &req) {
		return nil
	}
	msg, err := h.svc.Chat.Send(c.UserContext(), p, slotID, req.Content)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}
