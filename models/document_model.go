package models

import (
	"time"

	"github.com/google/uuid"
)

type DocumentType string

const (
	DocumentCNH                   DocumentType = "cnh"
	DocumentInstructorCertificate DocumentType = "certificate_instructor"
	DocumentDetranCredential      DocumentType = "detran_credential"
	DocumentVehicleCRLV           DocumentType = "vehicle_crlv"
)

func (t DocumentType) Valid() bool {
	switch t {
	case DocumentCNH, DocumentInstructorCertificate, DocumentDetranCredential, DocumentVehicleCRLV:
		return true
	}
	return false
}

type InstructorDocument struct {
	ID           uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	InstructorID uuid.UUID    `gorm:"type:uuid;not null;index" json:"instructor_id"`
	Type         DocumentType `gorm:"size:40;not null" json:"type"`
	ObjectKey    string       `gorm:"size:512;not null" json:"-"`
	URL          string       `gorm:"size:512;not null" json:"url"`
	Status       string       `gorm:"size:20;not null;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
}

// OrphanedObject is an uploaded object that a newer upload replaced.
type OrphanedObject struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ObjectKey string    `gorm:"size:512;not null"`
	CreatedAt time.Time `gorm:"index"`
}
