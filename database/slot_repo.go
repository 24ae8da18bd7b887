package database

import (
	"context"
	"time"

	"github.com/anjiri1684/driving_tutor/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SlotRepo struct {
	db *gorm.DB
}

func NewSlotRepo(db *gorm.DB) *SlotRepo {
	return &SlotRepo{db: db}
}

func (r *SlotRepo) Create(ctx context.Context, slot *models.Slot) error {
	return r.db.WithContext(ctx).Omit("Instructor", "Student").Create(slot).Error
}

func (r *SlotRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Slot, error) {
	var slot models.Slot
	err := r.db.WithContext(ctx).
		Preload("Instructor").
		Where("id = ?", id).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *SlotRepo) ListByInstructor(ctx context.Context, instructorID uuid.UUID) ([]models.Slot, error) {
	var slots []models.Slot
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("instructor_id = ?", instructorID).
		Order("scheduled_time ASC").
		Find(&slots).Error
	return slots, err
}

func (r *SlotRepo) ListOpenByInstructor(ctx context.Context, instructorID uuid.UUID, from time.Time) ([]models.Slot, error) {
	var slots []models.Slot
	err := r.db.WithContext(ctx).
		Where("instructor_id = ? AND state = ? AND scheduled_time >= ?", instructorID, models.SlotOpen, from).
		Order("scheduled_time ASC").
		Find(&slots).Error
	return slots, err
}

func (r *SlotRepo) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Slot, error) {
	var slots []models.Slot
	err := r.db.WithContext(ctx).
		Preload("Instructor").
		Where("student_id = ?", studentID).
		Order("scheduled_time ASC").
		Find(&slots).Error
	return slots, err
}

// Transition is a compare-and-set on (state, version). Losing writers see
// zero affected rows.
func (r *SlotRepo) Transition(ctx context.Context, id uuid.UUID, from models.SlotState, version int, to models.SlotState, studentID *uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Slot{}).
		Where("id = ? AND state = ? AND version = ?", id, from, version).
		Updates(map[string]interface{}{
			"state":      to,
			"student_id": studentID,
			"version":    gorm.Expr("version + 1"),
		})
	return res.RowsAffected == 1, res.Error
}

func (r *SlotRepo) Delete(ctx context.Context, id uuid.UUID, version int) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND version = ? AND state IN ?", id, version, []models.SlotState{models.SlotOpen, models.SlotRequested}).
		Delete(&models.Slot{})
	return res.RowsAffected == 1, res.Error
}
