package models

import (
	"time"

	"github.com/google/uuid"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

type Instructor struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	FullName      string  `gorm:"size:255" json:"full_name"`
	CPF           string  `gorm:"size:20" json:"cpf,omitempty"`
	Email         string  `gorm:"size:255" json:"email"`
	Phone         string  `gorm:"size:30" json:"phone"`
	City          string  `gorm:"size:120;index" json:"city"`
	State         string  `gorm:"size:2" json:"state"`
	Neighborhood  string  `gorm:"size:120" json:"neighborhood"`
	DetranNumber  string  `gorm:"size:50" json:"detran_number"`
	DetranState   string  `gorm:"size:2" json:"detran_state"`
	CNHCategory   string  `gorm:"size:5;default:'B'" json:"cnh_category"`
	VehicleType   string  `gorm:"size:20;default:'Manual'" json:"vehicle_type"`
	PricePerClass float64 `gorm:"type:numeric(10,2)" json:"price_per_class"`
	Description   string  `gorm:"type:text" json:"description"`
	OwnVehicle    bool    `gorm:"default:true" json:"own_vehicle"`

	AvatarURL   *string `gorm:"size:512" json:"avatar_url"`
	AvatarKey   string  `gorm:"size:512" json:"-"`
	CarPhotoURL *string `gorm:"size:512" json:"car_photo_url"`
	CarPhotoKey string  `gorm:"size:512" json:"-"`

	Status ApprovalStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`

	Documents []InstructorDocument `gorm:"foreignkey:InstructorID" json:"documents,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
