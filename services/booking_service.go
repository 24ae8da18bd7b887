package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anjiri1684/driving_tutor/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type BookingService struct {
	slots       SlotStore
	instructors InstructorStore
	reviews     ReviewStore
	logger      *zap.Logger
	now         func() time.Time
}

func NewBookingService(slots SlotStore, instructors InstructorStore, reviews ReviewStore, logger *zap.Logger) *BookingService {
	return &BookingService{
		slots:       slots,
		instructors: instructors,
		reviews:     reviews,
		logger:      logger,
		now:         time.Now,
	}
}

// Lesson is a slot seen from the student's side.
type Lesson struct {
	models.Slot
	ChatAvailable   bool `json:"chat_available"`
	ReviewAvailable bool `json:"review_available"`
	Reviewed        bool `json:"reviewed"`
}

// CreateSlot offers a new open slot. Overlapping slots are allowed.
func (s *BookingService) CreateSlot(ctx context.Context, actor Principal, at time.Time) (*models.Slot, error) {
	if actor.Role != models.RoleInstructor {
		return nil, ErrRoleNotAllowed
	}
	instructor, err := s.instructors.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileRequired
		}
		return nil, fmt.Errorf("load instructor: %w", err)
	}

	slot := &models.Slot{
		InstructorID:  instructor.ID,
		ScheduledTime: at.UTC(),
		State:         models.SlotOpen,
		Version:       1,
	}
	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}
	slot.Instructor = instructor

	s.logger.Info("slot created",
		zap.String("slot_id", slot.ID.String()),
		zap.String("instructor_id", instructor.ID.String()),
		zap.Time("scheduled_time", slot.ScheduledTime),
	)
	return slot, nil
}

// RequestSlot claims an open slot for the calling student. Concurrent
// requests race on a conditional write and only one of them wins.
func (s *BookingService) RequestSlot(ctx context.Context, actor Principal, slotID uuid.UUID) (*models.Slot, error) {
	slot, err := s.load(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if _, err := NextState(slot, ActionRequest, actor); err != nil {
		return nil, err
	}
	if !slot.ScheduledTime.After(s.now()) {
		return nil, ErrSlotExpired
	}
	requested, err := s.apply(ctx, slot, ActionRequest, actor)
	if err != nil {
		return nil, err
	}
	return withPublicInstructor(requested), nil
}

// ConfirmSlot accepts a pending request. Confirming twice is a no-op.
func (s *BookingService) ConfirmSlot(ctx context.Context, actor Principal, slotID uuid.UUID) (*models.Slot, error) {
	slot, err := s.load(ctx, slotID)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, slot, ActionConfirm, actor)
}

// DeleteSlot removes an open or requested slot. A pending request is
// discarded together with the slot.
func (s *BookingService) DeleteSlot(ctx context.Context, actor Principal, slotID uuid.UUID) error {
	slot, err := s.load(ctx, slotID)
	if err != nil {
		return err
	}
	if _, err := NextState(slot, ActionDelete, actor); err != nil {
		return err
	}

	ok, err := s.slots.Delete(ctx, slot.ID, slot.Version)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	if !ok {
		return s.lostRace(ctx, slot.ID, ActionDelete)
	}

	s.logger.Info("slot deleted",
		zap.String("slot_id", slot.ID.String()),
		zap.String("state", string(slot.State)),
	)
	return nil
}

func (s *BookingService) apply(ctx context.Context, slot *models.Slot, action SlotAction, actor Principal) (*models.Slot, error) {
	next, err := NextState(slot, action, actor)
	if err != nil {
		return nil, err
	}
	if next == slot.State {
		return slot, nil
	}

	occupant := slot.StudentID
	if action == ActionRequest {
		id := actor.UserID
		occupant = &id
	}

	ok, err := s.slots.Transition(ctx, slot.ID, slot.State, slot.Version, next, occupant)
	if err != nil {
		return nil, fmt.Errorf("%s slot: %w", action, err)
	}
	if !ok {
		return nil, s.lostRace(ctx, slot.ID, action)
	}

	s.logger.Info("slot transition",
		zap.String("slot_id", slot.ID.String()),
		zap.String("from", string(slot.State)),
		zap.String("to", string(next)),
		zap.String("actor", actor.UserID.String()),
	)

	slot.State = next
	slot.StudentID = occupant
	slot.Version++
	return slot, nil
}

// lostRace explains why a conditional write matched no row.
func (s *BookingService) lostRace(ctx context.Context, slotID uuid.UUID, action SlotAction) error {
	current, err := s.load(ctx, slotID)
	if err != nil {
		return err
	}
	switch {
	case action == ActionRequest && current.State != models.SlotOpen:
		return ErrSlotNotOpen
	case action == ActionDelete && current.State == models.SlotConfirmed:
		return ErrSlotConfirmed
	}
	return ErrStaleSlot
}

func (s *BookingService) load(ctx context.Context, slotID uuid.UUID) (*models.Slot, error) {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("load slot: %w", err)
	}
	return slot, nil
}

// InstructorAgenda lists every slot of the calling instructor, earliest first.
func (s *BookingService) InstructorAgenda(ctx context.Context, actor Principal) ([]models.Slot, error) {
	instructor, err := s.instructors.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileRequired
		}
		return nil, fmt.Errorf("load instructor: %w", err)
	}
	slots, err := s.slots.ListByInstructor(ctx, instructor.ID)
	if err != nil {
		return nil, fmt.Errorf("list agenda: %w", err)
	}
	return slots, nil
}

// OpenSlots lists the bookable future slots of an instructor.
func (s *BookingService) OpenSlots(ctx context.Context, instructorID uuid.UUID) ([]models.Slot, error) {
	slots, err := s.slots.ListOpenByInstructor(ctx, instructorID, s.now())
	if err != nil {
		return nil, fmt.Errorf("list open slots: %w", err)
	}
	return slots, nil
}

// StudentLessons lists the calling student's bookings with what they can do next.
// Review availability is derived from the clock at read time.
func (s *BookingService) StudentLessons(ctx context.Context, actor Principal) ([]Lesson, error) {
	slots, err := s.slots.ListByStudent(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(slots))
	for _, slot := range slots {
		ids = append(ids, slot.ID)
	}
	reviewed, err := s.reviews.ReviewedSlots(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load reviewed slots: %w", err)
	}

	now := s.now()
	lessons := make([]Lesson, 0, len(slots))
	for _, slot := range slots {
		confirmed := slot.State == models.SlotConfirmed
		done := reviewed[slot.ID]
		lessons = append(lessons, Lesson{
			Slot:            *withPublicInstructor(&slot),
			ChatAvailable:   confirmed,
			ReviewAvailable: confirmed && slot.ScheduledTime.Before(now) && !done,
			Reviewed:        done,
		})
	}
	return lessons, nil
}

// withPublicInstructor strips the private instructor fields from a slot
// handed to a student.
func withPublicInstructor(slot *models.Slot) *models.Slot {
	if slot.Instructor != nil {
		inst := publicView(*slot.Instructor)
		slot.Instructor = &inst
	}
	return slot
}
