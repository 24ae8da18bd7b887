package services

import (
	"fmt"

	"github.com/anjiri1684/driving_tutor/models"
	"github.com/google/uuid"
)

type SlotAction string

const (
	ActionRequest SlotAction = "request"
	ActionConfirm SlotAction = "confirm"
	ActionDelete  SlotAction = "delete"
)

// NextState returns the state a slot moves to when actor performs action,
// or the reason the transition is refused. It never touches storage.
//
//	open      --request(student)--> requested
//	requested --confirm(owner)-->   confirmed
//	confirmed --confirm(owner)-->   confirmed
//	open|requested --delete(owner)--> deleted
func NextState(slot *models.Slot, action SlotAction, actor Principal) (models.SlotState, error) {
	switch action {
	case ActionRequest:
		if actor.Role != models.RoleStudent {
			return "", ErrRoleNotAllowed
		}
		if slot.State != models.SlotOpen {
			return "", ErrSlotNotOpen
		}
		return models.SlotRequested, nil

	case ActionConfirm:
		if !ownsSlot(slot, actor) {
			return "", ErrNotOwner
		}
		switch slot.State {
		case models.SlotRequested, models.SlotConfirmed:
			return models.SlotConfirmed, nil
		default:
			return "", ErrSlotNotRequested
		}

	case ActionDelete:
		if !ownsSlot(slot, actor) {
			return "", ErrNotOwner
		}
		if slot.State == models.SlotConfirmed {
			return "", ErrSlotConfirmed
		}
		return models.SlotDeleted, nil
	}

	return "", fmt.Errorf("unknown slot action %q", action)
}

func ownsSlot(slot *models.Slot, actor Principal) bool {
	owner := slot.OwnerUserID()
	return owner != uuid.Nil && owner == actor.UserID
}
