package services

import (
	"context"
	"io"
	"time"

	"github.com/anjiri1684/driving_tutor/models"
	"github.com/anjiri1684/driving_tutor/websocket"
	"github.com/google/uuid"
)

// Stores return gorm.ErrRecordNotFound for missing rows.

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type InstructorStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Instructor, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Instructor, error)
	Upsert(ctx context.Context, instructor *models.Instructor) error
	ListApproved(ctx context.Context, place string) ([]models.Instructor, error)
	ListPending(ctx context.Context) ([]models.Instructor, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.ApprovalStatus) (bool, error)
	// SetPhoto stores a new photo and returns the object key it replaced.
	SetPhoto(ctx context.Context, id uuid.UUID, kind PhotoKind, key, url string) (string, error)
	// ReplaceDocument swaps the document of the same type and returns the replaced row, if any.
	ReplaceDocument(ctx context.Context, doc *models.InstructorDocument) (*models.InstructorDocument, error)
	ListDocuments(ctx context.Context, instructorID uuid.UUID) ([]models.InstructorDocument, error)
}

type SlotStore interface {
	Create(ctx context.Context, slot *models.Slot) error
	// GetByID loads the slot with its Instructor.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Slot, error)
	ListByInstructor(ctx context.Context, instructorID uuid.UUID) ([]models.Slot, error)
	ListOpenByInstructor(ctx context.Context, instructorID uuid.UUID, from time.Time) ([]models.Slot, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Slot, error)
	// Transition moves the slot to `to` only if it is still in `from` at `version`.
	// It reports whether the row was updated.
	Transition(ctx context.Context, id uuid.UUID, from models.SlotState, version int, to models.SlotState, studentID *uuid.UUID) (bool, error)
	// Delete removes the slot only if it is still at `version` and not confirmed.
	Delete(ctx context.Context, id uuid.UUID, version int) (bool, error)
}

type MessageStore interface {
	Create(ctx context.Context, msg *models.Message) error
	// ListBySlot returns the full history ordered by created_at ascending.
	ListBySlot(ctx context.Context, slotID uuid.UUID) ([]models.Message, error)
}

type RatingStats struct {
	Count int64
	Sum   int64
}

type ReviewStore interface {
	// CreateIfAbsent inserts the review unless one already exists for its slot.
	CreateIfAbsent(ctx context.Context, review *models.Review) (bool, error)
	ReviewedSlots(ctx context.Context, slotIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	ListByInstructor(ctx context.Context, instructorID uuid.UUID) ([]models.Review, error)
	Stats(ctx context.Context, instructorIDs []uuid.UUID) (map[uuid.UUID]RatingStats, error)
}

type OrphanStore interface {
	Add(ctx context.Context, key string) error
}

type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader) (string, error)
}

// Feed delivers appended chat messages to live subscribers of a slot.
type Feed interface {
	Publish(ctx context.Context, slotID uuid.UUID, msg *models.Message) error
	Subscribe(ctx context.Context, slotID uuid.UUID) (*websocket.Subscription, error)
}
