package handlers

import (
	"github.com/anjiri1684/driving_tutor/models"
	"github.com/gofiber/fiber/v2"
)

type ApprovalRequest struct {
	Status models.ApprovalStatus `json:"status" validate:"required,oneof=approved rejected"`
}

func (h *Handlers) ListPendingInstructors(c *fiber.Ctx) error {
	pending, err := h.svc.Instructors.ListPending(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(pending)
}

func (h *Handlers) SetInstructorApproval(c *fiber.Ctx) error {
	instructorID, ok := mustUUID(c, "instructorId")
	if !ok {
		return nil
	}
	var req ApprovalRequest
	if !h.bind(c, &req) {
		return nil
	}
	inst, err := h.svc.Instructors.SetApproval(c.UserContext(), instructorID, req.Status)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(inst)
}
