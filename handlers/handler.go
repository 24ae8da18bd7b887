package handlers

import (
	"errors"

	"github.com/anjiri1684/driving_tutor/middleware"
	"github.com/anjiri1684/driving_tutor/services"
	"github.com/anjiri1684/driving_tutor/storage"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UploadSigner issues parameters for direct browser uploads.
type UploadSigner interface {
	SignUpload(sub string) (*storage.UploadSignature, error)
}

type Handlers struct {
	svc      *services.Services
	signer   UploadSigner
	logger   *zap.Logger
	validate *validator.Validate
}

// New builds the HTTP handlers. signer may be nil when uploads are disabled.
func New(svc *services.Services, signer UploadSigner, logger *zap.Logger) *Handlers {
	return &Handlers{
		svc:      svc,
		signer:   signer,
		logger:   logger,
		validate: validator.New(),
	}
}

// Admins exposes the admin policy for route guards.
func (h *Handlers) Admins() services.AdminPolicy {
	return h.svc.Admins
}

// bind parses and validates the body. On failure the 400 response is already
// written and the caller should return nil.
func (h *Handlers) bind(c *fiber.Ctx, req interface{}) bool {
	if err := c.BodyParser(req); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		return false
	}
	return true
}

// mustPrincipal follows the same contract as bind.
func mustPrincipal(c *fiber.Ctx) (services.Principal, bool) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
		return services.Principal{}, false
	}
	return p, true
}

func mustUUID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

var (
	badRequest = []error{
		services.ErrEmptyMessage,
		services.ErrInvalidRating,
		services.ErrInvalidDocumentType,
		services.ErrInvalidApprovalStatus,
		services.ErrInvalidPhotoKind,
	}
	forbidden = []error{
		services.ErrNotOwner,
		services.ErrNotParticipant,
		services.ErrRoleNotAllowed,
	}
	notFound = []error{
		services.ErrSlotNotFound,
		services.ErrInstructorNotFound,
		services.ErrUserNotFound,
		services.ErrProfileRequired,
	}
	conflict = []error{
		services.ErrSlotNotOpen,
		services.ErrSlotNotRequested,
		services.ErrSlotConfirmed,
		services.ErrSlotExpired,
		services.ErrStaleSlot,
		services.ErrChatUnavailable,
		services.ErrReviewNotAvailable,
		services.ErrAlreadyReviewed,
		services.ErrEmailTaken,
	}
)

// StatusFor maps a service error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case isAny(err, badRequest):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case isAny(err, forbidden):
		return fiber.StatusForbidden
	case isAny(err, notFound):
		return fiber.StatusNotFound
	case isAny(err, conflict):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrUploadsDisabled):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

// respondError writes the error as JSON. Unexpected errors are logged and
// replaced with a generic message.
func (h *Handlers) respondError(c *fiber.Ctx, err error) error {
	status := StatusFor(err)
	if status == fiber.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(status).JSON(fiber.Map{"error": "Something went wrong, please try again"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}
