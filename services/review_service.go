package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/anjiri1684/driving_tutor/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NoRatingDisplay is shown for instructors nobody has reviewed yet.
const NoRatingDisplay = "New"

type RatingSummary struct {
	Count   int64    `json:"count"`
	Average *float64 `json:"average"`
	Display string   `json:"display"`
}

// NewRatingSummary computes the mean rating rounded to one decimal.
func NewRatingSummary(stats RatingStats) RatingSummary {
	if stats.Count == 0 {
		return RatingSummary{Display: NoRatingDisplay}
	}
	mean := float64(stats.Sum) / float64(stats.Count)
	rounded := math.Round(mean*10) / 10
	return RatingSummary{
		Count:   stats.Count,
		Average: &rounded,
		Display: strconv.FormatFloat(rounded, 'f', 1, 64),
	}
}

type InstructorReviews struct {
	Rating  RatingSummary   `json:"rating"`
	Reviews []models.Review `json:"reviews"`
}

type ReviewService struct {
	slots   SlotStore
	reviews ReviewStore
	logger  *zap.Logger
	now     func() time.Time
}

func NewReviewService(slots SlotStore, reviews ReviewStore, logger *zap.Logger) *ReviewService {
	return &ReviewService{slots: slots, reviews: reviews, logger: logger, now: time.Now}
}

// Submit records the single review of a completed booking.
func (s *ReviewService) Submit(ctx context.Context, actor Principal, slotID uuid.UUID, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("load slot: %w", err)
	}
	if slot.StudentID == nil || *slot.StudentID != actor.UserID {
		return nil, ErrNotParticipant
	}
	if slot.State != models.SlotConfirmed || !slot.ScheduledTime.Before(s.now()) {
		return nil, ErrReviewNotAvailable
	}

	review := &models.Review{
		SlotID:       slot.ID,
		InstructorID: slot.InstructorID,
		StudentID:    actor.UserID,
		Rating:       rating,
		Comment:      strings.TrimSpace(comment),
		CreatedAt:    s.now().UTC(),
	}
	created, err := s.reviews.CreateIfAbsent(ctx, review)
	if err != nil {
		return nil, fmt.Errorf("save review: %w", err)
	}
	if !created {
		return nil, ErrAlreadyReviewed
	}

	s.logger.Info("review submitted",
		zap.String("slot_id", slot.ID.String()),
		zap.String("instructor_id", slot.InstructorID.String()),
		zap.Int("rating", rating),
	)
	return review, nil
}

// ForInstructor returns the instructor's reviews, newest first, and their aggregate.
func (s *ReviewService) ForInstructor(ctx context.Context, instructorID uuid.UUID) (*InstructorReviews, error) {
	reviews, err := s.reviews.ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	var stats RatingStats
	for _, r := range reviews {
		stats.Count++
		stats.Sum += int64(r.Rating)
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return &InstructorReviews{Rating: NewRatingSummary(stats), Reviews: reviews}, nil
}

// Summaries returns the aggregate rating of each instructor.
func (s *ReviewService) Summaries(ctx context.Context, instructorIDs []uuid.UUID) (map[uuid.UUID]RatingSummary, error) {
	stats, err := s.reviews.Stats(ctx, instructorIDs)
	if err != nil {
		return nil, fmt.Errorf("load rating stats: %w", err)
	}
	out := make(map[uuid.UUID]RatingSummary, len(instructorIDs))
	for _, id := range instructorIDs {
		out[id] = NewRatingSummary(stats[id])
	}
	return out, nil
}
