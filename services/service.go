package services

import (
	"time"

	"go.uber.org/zap"
)

// Stores bundles the persistence ports the services depend on.
type Stores struct {
	Users       UserStore
	Instructors InstructorStore
	Slots       SlotStore
	Messages    MessageStore
	Reviews     ReviewStore
	Orphans     OrphanStore
}

type Options struct {
	JWTSecret string
	JWTTTL    time.Duration
	Admins    AdminPolicy
	// Objects may be nil when no object storage is configured.
	Objects ObjectStore
	Feed    Feed
}

// Services is the aggregate handed to the HTTP layer.
type Services struct {
	Auth        *AuthService
	Instructors *InstructorService
	Booking     *BookingService
	Chat        *ChatService
	Reviews     *ReviewService
	Listing     *ListingService
	Admins      AdminPolicy
}

func New(stores Stores, opts Options, logger *zap.Logger) *Services {
	booking := NewBookingService(stores.Slots, stores.Instructors, stores.Reviews, logger)
	reviews := NewReviewService(stores.Slots, stores.Reviews, logger)
	return &Services{
		Auth:        NewAuthService(stores.Users, opts.JWTSecret, opts.JWTTTL, opts.Admins, logger),
		Instructors: NewInstructorService(stores.Instructors, stores.Orphans, opts.Objects, logger),
		Booking:     booking,
		Chat:        NewChatService(stores.Slots, stores.Messages, opts.Feed, logger),
		Reviews:     reviews,
		Listing:     NewListingService(stores.Instructors, reviews, booking, opts.Admins),
		Admins:      opts.Admins,
	}
}
