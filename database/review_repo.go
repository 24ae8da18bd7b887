package database

import (
	"context"

	"github.com/anjiri1684/driving_tutor/models"
	"github.com/anjiri1684/driving_tutor/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepo struct {
	db *gorm.DB
}

func NewReviewRepo(db *gorm.DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

// CreateIfAbsent relies on the unique index on slot_id, so concurrent
// submissions for one slot insert at most one row.
func (r *ReviewRepo) CreateIfAbsent(ctx context.Context, review *models.Review) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slot_id"}},
			DoNothing: true,
		}).
		Create(review)
	return res.RowsAffected == 1, res.Error
}

func (r *ReviewRepo) ReviewedSlots(ctx context.Context, slotIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	reviewed := make(map[uuid.UUID]bool, len(slotIDs))
	if len(slotIDs) == 0 {
		return reviewed, nil
	}
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("slot_id IN ?", slotIDs).
		Pluck("slot_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		reviewed[id] = true
	}
	return reviewed, nil
}

func (r *ReviewRepo) ListByInstructor(ctx context.Context, instructorID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Where("instructor_id = ?", instructorID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepo) Stats(ctx context.Context, instructorIDs []uuid.UUID) (map[uuid.UUID]services.RatingStats, error) {
	stats := make(map[uuid.UUID]services.RatingStats, len(instructorIDs))
	if len(instructorIDs) == 0 {
		return stats, nil
	}

	var rows []struct {
		InstructorID uuid.UUID
		Count        int64
		Sum          int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("instructor_id, COUNT(*) AS count, COALESCE(SUM(rating), 0) AS sum").
		Where("instructor_id IN ?", instructorIDs).
		Group("instructor_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats[row.InstructorID] = services.RatingStats{Count: row.Count, Sum: row.Sum}
	}
	return stats, nil
}
