package database

import (
	"context"
	"errors"
	"strings"

	"github.com/anjiri1684/driving_tutor/models"
	"github.com/anjiri1684/driving_tutor/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InstructorRepo struct {
	db *gorm.DB
}

func NewInstructorRepo(db *gorm.DB) *InstructorRepo {
	return &InstructorRepo{db: db}
}

func (r *InstructorRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Instructor, error) {
	var inst models.Instructor
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&inst).Error; err != nil {
		return nil, err
	}
	return &inst, nil
}

func (r *InstructorRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Instructor, error) {
	var inst models.Instructor
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&inst).Error; err != nil {
		return nil, err
	}
	return &inst, nil
}

func (r *InstructorRepo) Upsert(ctx context.Context, inst *models.Instructor) error {
	db := r.db.WithContext(ctx).Omit(clause.Associations)
	if inst.ID == uuid.Nil {
		return db.Create(inst).Error
	}
	return db.Save(inst).Error
}

// ListApproved matches place as a case-insensitive substring of city or
// neighborhood. LIKE wildcards in place are matched literally.
func (r *InstructorRepo) ListApproved(ctx context.Context, place string) ([]models.Instructor, error) {
	var found []models.Instructor
	db := r.db.WithContext(ctx).Where("status = ?", models.ApprovalApproved)
	if place != "" {
		pattern := "%" + escapeLike(place) + "%"
		db = db.Where("(city ILIKE ? OR neighborhood ILIKE ?)", pattern, pattern)
	}
	err := db.Order("created_at DESC").Find(&found).Error
	return found, err
}

func (r *InstructorRepo) ListPending(ctx context.Context) ([]models.Instructor, error) {
	var pending []models.Instructor
	err := r.db.WithContext(ctx).
		Preload("Documents", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("status = ?", models.ApprovalPending).
		Order("updated_at DESC").
		Find(&pending).Error
	return pending, err
}

func (r *InstructorRepo) SetStatus(ctx context.Context, id uuid.UUID, status models.ApprovalStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Instructor{}).
		Where("id = ?", id).
		Update("status", status)
	return res.RowsAffected == 1, res.Error
}

func (r *InstructorRepo) SetPhoto(ctx context.Context, id uuid.UUID, kind services.PhotoKind, key, url string) (string, error) {
	urlCol, keyCol := "avatar_url", "avatar_key"
	if kind == services.PhotoVehicle {
		urlCol, keyCol = "car_photo_url", "car_photo_key"
	}

	var previous string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inst models.Instructor
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&inst).Error
		if err != nil {
			return err
		}
		if kind == services.PhotoVehicle {
			previous = inst.CarPhotoKey
		} else {
			previous = inst.AvatarKey
		}
		return tx.Model(&models.Instructor{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{urlCol: url, keyCol: key}).Error
	})
	return previous, err
}

func (r *InstructorRepo) ReplaceDocument(ctx context.Context, doc *models.InstructorDocument) (*models.InstructorDocument, error) {
	var previous *models.InstructorDocument
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old models.InstructorDocument
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("instructor_id = ? AND type = ?", doc.InstructorID, doc.Type).
			First(&old).Error
		switch {
		case err == nil:
			if err := tx.Delete(&old).Error; err != nil {
				return err
			}
			previous = &old
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
		return tx.Create(doc).Error
	})
	if err != nil {
		return nil, err
	}
	return previous, nil
}

func (r *InstructorRepo) ListDocuments(ctx context.Context, instructorID uuid.UUID) ([]models.InstructorDocument, error) {
	var docs []models.InstructorDocument
	err := r.db.WithContext(ctx).
		Where("instructor_id = ?", instructorID).
		Order("created_at ASC").
		Find(&docs).Error
	return docs, err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
