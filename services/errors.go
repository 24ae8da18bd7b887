package services

import "errors"

// Not found.
var (
	ErrSlotNotFound       = errors.New("slot not found")
	ErrInstructorNotFound = errors.New("instructor not found")
	ErrUserNotFound       = errors.New("user not found")
)

// Authorization.
var (
	ErrNotOwner           = errors.New("only the instructor who owns this slot can do that")
	ErrNotParticipant     = errors.New("you are not a participant of this booking")
	ErrRoleNotAllowed     = errors.New("your account role cannot perform this action")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// State rejections.
var (
	ErrSlotNotOpen        = errors.New("this slot is no longer available")
	ErrSlotNotRequested   = errors.New("only requested slots can be confirmed")
	ErrSlotConfirmed      = errors.New("a confirmed slot cannot be deleted")
	ErrSlotExpired        = errors.New("this slot is in the past")
	ErrStaleSlot          = errors.New("the slot was changed by someone else, reload and try again")
	ErrChatUnavailable    = errors.New("chat is only available for confirmed bookings")
	ErrReviewNotAvailable = errors.New("reviews open once a confirmed lesson has taken place")
	ErrAlreadyReviewed    = errors.New("this lesson has already been reviewed")
	ErrEmailTaken         = errors.New("email already exists")
	ErrProfileRequired    = errors.New("save your instructor profile first")
)

// Validation.
var (
	ErrEmptyMessage          = errors.New("message content cannot be empty")
	ErrInvalidRating         = errors.New("rating must be between 1 and 5")
	ErrInvalidDocumentType   = errors.New("unknown document type")
	ErrInvalidApprovalStatus = errors.New("approval status must be approved or rejected")
	ErrInvalidPhotoKind      = errors.New("unknown photo kind")
)

// ErrUploadsDisabled is returned when no object store is configured.
var ErrUploadsDisabled = errors.New("file uploads are not configured")
