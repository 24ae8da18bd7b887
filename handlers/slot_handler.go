package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type CreateSlotRequest struct {
	ScheduledTime time.Time `json:"scheduled_time" validate:"required"`
}

func (h *Handlers) CreateSlot(c *fiber.Ctx) error {
	p, ok := mustPrincipal(c)
	if !ok {
		return nil
	}
	var req CreateSlotRequest
	if !h.bind(c, &req) {
		return nil
	}

	slot, err := h.svc.Booking.CreateSlot(c.UserContext(), p, req.ScheduledTime)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(slot)
}

func (h *Handlers) GetMyAgenda(c *fiber.Ctx) error {
	p, ok := mustPrincipal(c)
	if !ok {
		return nil
	}
	slots, err := h.svc.Booking.InstructorAgenda(c.UserContext(), p)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(slots)
}

func (h *Handlers) ConfirmSlot(c *fiber.Ctx) error {
	p, ok := mustPrincipal(c)
	if !ok {
		return nil
	}
	slotID, ok := mustUUID(c, "slotId")
	if !ok {
		return nil
	}
	slot, err := h.svc.Booking.ConfirmSlot(c.UserContext(), p, slotID)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(slot)
}

func (h *Handlers) DeleteSlot(c *fiber.Ctx) error {
	p, ok := mustPrincipal(c)
	if !ok {
		return nil
	}
	slotID, ok := mustUUID(c, "slotId")
	if !ok {
		return nil
	}
	if err := h.svc.Booking.DeleteSlot(c.UserContext(), p, slotID); err != nil {
		return h.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RequestSlot claims an open slot. A student who loses the race gets 409.
func (h *Handlers) RequestSlot(c *fiber.Ctx) error {
	p, ok := mustPrincipal(c)
	if !ok {
		return nil
	}
	slotID, ok := mustUUID(c, "slotId")
	if !ok {
		return nil
	}
	slot, err := h.svc.Booking.RequestSlot(c.UserContext(), p, slotID)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(slot)
}

func (h *Handlers) GetMyLessons(c *fiber.Ctx) error {
	p, ok := mustPrincipal(c)
	if !ok {
		return nil
	}
	lessons, err := h.svc.Booking.StudentLessons(c.UserContext(), p)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(lessons)
}
