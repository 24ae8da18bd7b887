package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/anjiri1684/driving_tutor/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PhotoKind string

const (
	PhotoAvatar  PhotoKind = "avatar"
	PhotoVehicle PhotoKind = "vehicle_photo"
)

type ProfileInput struct {
	FullName      string
	CPF           string
	Email         string
	Phone         string
	City          string
	State         string
	Neighborhood  string
	DetranNumber  string
	DetranState   string
	CNHCategory   string
	VehicleType   string
	PricePerClass float64
	Description   string
	OwnVehicle    bool
}

// InstructorService manages instructor profiles, their documents and the
// approval gate.
type InstructorService struct {
	instructors InstructorStore
	orphans     OrphanStore
	objects     ObjectStore
	logger      *zap.Logger
	now         func() time.Time
}

// NewInstructorService builds the service. objects may be nil, in which case
// uploads fail with ErrUploadsDisabled.
func NewInstructorService(instructors InstructorStore, orphans OrphanStore, objects ObjectStore, logger *zap.Logger) *InstructorService {
	return &InstructorService{
		instructors: instructors,
		orphans:     orphans,
		objects:     objects,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *InstructorService) Mine(ctx context.Context, actor Principal) (*models.Instructor, error) {
	inst, err := s.mine(ctx, actor)
	if err != nil {
		return nil, err
	}
	docs, err := s.instructors.ListDocuments(ctx, inst.ID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	inst.Documents = docs
	return inst, nil
}

// SaveProfile creates or updates the caller's profile. Any change sends the
// profile back to review.
func (s *InstructorService) SaveProfile(ctx context.Context, actor Principal, in ProfileInput) (*models.Instructor, error) {
	if actor.Role != models.RoleInstructor {
		return nil, ErrRoleNotAllowed
	}

	inst := &models.Instructor{UserID: actor.UserID}
	existing, err := s.instructors.GetByUserID(ctx, actor.UserID)
	switch {
	case err == nil:
		inst = existing
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("load instructor: %w", err)
	}

	inst.FullName = in.FullName
	inst.CPF = in.CPF
	inst.Email = strings.ToLower(in.Email)
	inst.Phone = in.Phone
	inst.City = in.City
	inst.State = strings.ToUpper(in.State)
	inst.Neighborhood = in.Neighborhood
	inst.DetranNumber = in.DetranNumber
	inst.DetranState = strings.ToUpper(in.DetranState)
	inst.CNHCategory = defaultString(in.CNHCategory, "B")
	inst.VehicleType = defaultString(in.VehicleType, "Manual")
	inst.PricePerClass = in.PricePerClass
	inst.Description = in.Description
	inst.OwnVehicle = in.OwnVehicle
	inst.Status = models.ApprovalPending

	if err := s.instructors.Upsert(ctx, inst); err != nil {
		return nil, fmt.Errorf("save instructor: %w", err)
	}
	s.logger.Info("instructor profile saved, awaiting review", zap.String("instructor_id", inst.ID.String()))
	return inst, nil
}

// UploadDocument stores a credential file under the instructor's folder and
// replaces the previous document of the same type.
func (s *InstructorService) UploadDocument(ctx context.Context, actor Principal, docType models.DocumentType, filename string, r io.Reader) (*models.InstructorDocument, error) {
	if !docType.Valid() {
		return nil, ErrInvalidDocumentType
	}
	inst, err := s.mine(ctx, actor)
	if err != nil {
		return nil, err
	}

	key, url, err := s.upload(ctx, inst.ID, string(docType), filename, r)
	if err != nil {
		return nil, err
	}

	doc := &models.InstructorDocument{
		InstructorID: inst.ID,
		Type:         docType,
		ObjectKey:    key,
		URL:          url,
		Status:       "pending",
	}
	previous, err := s.instructors.ReplaceDocument(ctx, doc)
	if err != nil {
		s.orphan(ctx, key)
		return nil, fmt.Errorf("save document: %w", err)
	}
	if previous != nil {
		s.orphan(ctx, previous.ObjectKey)
	}
	return doc, nil
}

// UploadPhoto sets the avatar or the vehicle photo.
func (s *InstructorService) UploadPhoto(ctx context.Context, actor Principal, kind PhotoKind, filename string, r io.Reader) (*models.Instructor, error) {
	if kind != PhotoAvatar && kind != PhotoVehicle {
		return nil, ErrInvalidPhotoKind
	}
	inst, err := s.mine(ctx, actor)
	if err != nil {
		return nil, err
	}

	key, url, err := s.upload(ctx, inst.ID, string(kind), filename, r)
	if err != nil {
		return nil, err
	}
	previous, err := s.instructors.SetPhoto(ctx, inst.ID, kind, key, url)
	if err != nil {
		s.orphan(ctx, key)
		return nil, fmt.Errorf("save photo: %w", err)
	}
	s.orphan(ctx, previous)

	if kind == PhotoAvatar {
		inst.AvatarURL, inst.AvatarKey = &url, key
	} else {
		inst.CarPhotoURL, inst.CarPhotoKey = &url, key
	}
	return inst, nil
}

// UploadFolder is the object namespace of the caller's files.
func (s *InstructorService) UploadFolder(ctx context.Context, actor Principal) (string, error) {
	inst, err := s.mine(ctx, actor)
	if err != nil {
		return "", err
	}
	return inst.ID.String(), nil
}

func (s *InstructorService) ListPending(ctx context.Context) ([]models.Instructor, error) {
	pending, err := s.instructors.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending instructors: %w", err)
	}
	if pending == nil {
		pending = []models.Instructor{}
	}
	return pending, nil
}

func (s *InstructorService) SetApproval(ctx context.Context, instructorID uuid.UUID, status models.ApprovalStatus) (*models.Instructor, error) {
	if status != models.ApprovalApproved && status != models.ApprovalRejected {
		return nil, ErrInvalidApprovalStatus
	}
	ok, err := s.instructors.SetStatus(ctx, instructorID, status)
	if err != nil {
		return nil, fmt.Errorf("update approval: %w", err)
	}
	if !ok {
		return nil, ErrInstructorNotFound
	}

	inst, err := s.instructors.GetByID(ctx, instructorID)
	if err != nil {
		return nil, fmt.Errorf("reload instructor: %w", err)
	}
	s.logger.Info("instructor approval changed",
		zap.String("instructor_id", instructorID.String()),
		zap.String("status", string(status)),
	)
	return inst, nil
}

func (s *InstructorService) mine(ctx context.Context, actor Principal) (*models.Instructor, error) {
	if actor.Role != models.RoleInstructor {
		return nil, ErrRoleNotAllowed
	}
	inst, err := s.instructors.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileRequired
		}
		return nil, fmt.Errorf("load instructor: %w", err)
	}
	return inst, nil
}

// ObjectKey names an upload: <instructorID>/<kind>_<unix millis><.ext>.
func ObjectKey(instructorID uuid.UUID, kind, filename string, at time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s_%d%s", instructorID, kind, at.UnixMilli(), ext)
}

func (s *InstructorService) upload(ctx context.Context, instructorID uuid.UUID, kind, filename string, r io.Reader) (string, string, error) {
	if s.objects == nil {
		return "", "", ErrUploadsDisabled
	}
	key := ObjectKey(instructorID, kind, filename, s.now())
	url, err := s.objects.Upload(ctx, key, r)
	if err != nil {
		return "", "", fmt.Errorf("upload %s: %w", kind, err)
	}
	return key, url, nil
}

func (s *InstructorService) orphan(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.orphans.Add(ctx, key); err != nil {
		s.logger.Warn("could not record replaced upload", zap.String("key", key), zap.Error(err))
	}
}

func defaultString(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
