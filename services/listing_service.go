package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anjiri1684/driving_tutor/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InstructorCard struct {
	Instructor models.Instructor `json:"instructor"`
	Rating     RatingSummary     `json:"rating"`
}

type InstructorDetail struct {
	Instructor models.Instructor `json:"instructor"`
	Rating     RatingSummary     `json:"rating"`
	Reviews    []models.Review   `json:"reviews"`
	OpenSlots  []models.Slot     `json:"open_slots"`
}

// ListingService is the read-only search surface over approved instructors.
type ListingService struct {
	instructors InstructorStore
	reviews     *ReviewService
	booking     *BookingService
	admins      AdminPolicy
}

func NewListingService(instructors InstructorStore, reviews *ReviewService, booking *BookingService, admins AdminPolicy) *ListingService {
	return &ListingService{instructors: instructors, reviews: reviews, booking: booking, admins: admins}
}

// Search returns approved instructors, newest first, whose city or
// neighborhood contains place (case-insensitive). An empty place matches all.
func (s *ListingService) Search(ctx context.Context, place string) ([]InstructorCard, error) {
	found, err := s.instructors.ListApproved(ctx, strings.TrimSpace(place))
	if err != nil {
		return nil, fmt.Errorf("search instructors: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(found))
	for _, inst := range found {
		ids = append(ids, inst.ID)
	}
	ratings, err := s.reviews.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	cards := make([]InstructorCard, 0, len(found))
	for _, inst := range found {
		cards = append(cards, InstructorCard{Instructor: publicView(inst), Rating: ratings[inst.ID]})
	}
	return cards, nil
}

// Detail is the public profile page: reviews, rating and bookable slots.
// Profiles that are not approved are only visible to their owner and admins.
func (s *ListingService) Detail(ctx context.Context, viewer *Principal, instructorID uuid.UUID) (*InstructorDetail, error) {
	inst, err := s.visible(ctx, viewer, instructorID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ForInstructor(ctx, inst.ID)
	if err != nil {
		return nil, err
	}
	slots, err := s.booking.OpenSlots(ctx, inst.ID)
	if err != nil {
		return nil, err
	}
	if slots == nil {
		slots = []models.Slot{}
	}

	return &InstructorDetail{
		Instructor: publicView(*inst),
		Rating:     reviews.Rating,
		Reviews:    reviews.Reviews,
		OpenSlots:  slots,
	}, nil
}

// OpenSlots is the booking calendar of a visible instructor.
func (s *ListingService) OpenSlots(ctx context.Context, viewer *Principal, instructorID uuid.UUID) ([]models.Slot, error) {
	inst, err := s.visible(ctx, viewer, instructorID)
	if err != nil {
		return nil, err
	}
	slots, err := s.booking.OpenSlots(ctx, inst.ID)
	if err != nil {
		return nil, err
	}
	if slots == nil {
		slots = []models.Slot{}
	}
	return slots, nil
}

func (s *ListingService) visible(ctx context.Context, viewer *Principal, instructorID uuid.UUID) (*models.Instructor, error) {
	inst, err := s.instructors.GetByID(ctx, instructorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInstructorNotFound
		}
		return nil, fmt.Errorf("load instructor: %w", err)
	}
	if inst.Status != models.ApprovalApproved && !s.canSeeUnapproved(viewer, inst) {
		return nil, ErrInstructorNotFound
	}
	return inst, nil
}

func (s *ListingService) canSeeUnapproved(viewer *Principal, inst *models.Instructor) bool {
	if viewer == nil {
		return false
	}
	return viewer.UserID == inst.UserID || s.admins.IsAdmin(*viewer)
}

func publicView(inst models.Instructor) models.Instructor {
	inst.CPF = ""
	inst.Documents = nil
	return inst
}
