package handlers

import (
	"github.com/gofiber/fiber/v2"
)

type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// SubmitReview records the single review of a completed lesson. A second
// submission gets 409.
func (h *Handlers) SubmitReview(c *fiber.Ctx) error {
	p, ok := mustPrincipal(c)
	if !ok {
		return nil
	}
	slotID, ok := mustUUID(c, "slotId")
	if !ok {
		return nil
	}
	var req ReviewRequest
	if !h.bind(c, &req) {
		return nil
	}
	review, err := h.svc.Reviews.Submit(c.UserContext(), p, slotID, req.Rating, req.Comment)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}
