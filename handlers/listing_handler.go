package handlers

import (
	"github.com/anjiri1684/driving_tutor/middleware"
	"github.com/anjiri1684/driving_tutor/services"
	"github.com/gofiber/fiber/v2"
)

// EmptyListingMessage is returned alongside an empty search result.
const EmptyListingMessage = "No instructors found for this location yet."

func (h *Handlers) SearchInstructors(c *fiber.Ctx) error {
	cards, err := h.svc.Listing.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return h.respondError(c, err)
	}
	resp := fiber.Map{"instructors": cards, "count": len(cards)}
	if len(cards) == 0 {
		resp["message"] = EmptyListingMessage
	}
	return c.JSON(resp)
}

func (h *Handlers) GetInstructorDetail(c *fiber.Ctx) error {
	instructorID, ok := mustUUID(c, "instructorId")
	if !ok {
		return nil
	}
	detail, err := h.svc.Listing.Detail(c.UserContext(), viewer(c), instructorID)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(detail)
}

func (h *Handlers) GetOpenSlots(c *fiber.Ctx) error {
	instructorID, ok := mustUUID(c, "instructorId")
	if !ok {
		return nil
	}
	slots, err := h.svc.Listing.OpenSlots(c.UserContext(), viewer(c), instructorID)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(slots)
}

// viewer is the optional caller of a public route.
func viewer(c *fiber.Ctx) *services.Principal {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return nil
	}
	return &p
}
