package models

import (
	"time"

	"github.com/google/uuid"
)

type SlotState string

const (
	SlotOpen      SlotState = "open"
	SlotRequested SlotState = "requested"
	SlotConfirmed SlotState = "confirmed"
	// SlotDeleted is a transition outcome only; it is never persisted.
	SlotDeleted SlotState = "deleted"
)

type Slot struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	InstructorID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"instructor_id"`
	StudentID     *uuid.UUID `gorm:"type:uuid;index" json:"student_id"`
	ScheduledTime time.Time  `gorm:"not null;index" json:"scheduled_time"`
	State         SlotState  `gorm:"size:20;not null;default:'open';index" json:"state"`
	Version       int        `gorm:"not null;default:1" json:"version"`

	Instructor *Instructor `gorm:"foreignkey:InstructorID" json:"instructor,omitempty"`
	Student    *User       `gorm:"foreignkey:StudentID" json:"student,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnerUserID is the account id of the instructor owning the slot. It is
// uuid.Nil when the instructor association was not loaded.
func (s *Slot) OwnerUserID() uuid.UUID {
	if s.Instructor == nil {
		return uuid.Nil
	}
	return s.Instructor.UserID
}

func (s *Slot) IsParticipant(userID uuid.UUID) bool {
	if userID == uuid.Nil {
		return false
	}
	if s.OwnerUserID() == userID {
		return true
	}
	return s.StudentID != nil && *s.StudentID == userID
}
