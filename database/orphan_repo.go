package database

import (
	"context"
	"time"

	"github.com/anjiri1684/driving_tutor/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrphanRepo tracks uploaded objects that are no longer referenced.
type OrphanRepo struct {
	db *gorm.DB
}

func NewOrphanRepo(db *gorm.DB) *OrphanRepo {
	return &OrphanRepo{db: db}
}

func (r *OrphanRepo) Add(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Create(&models.OrphanedObject{ObjectKey: key}).Error
}

func (r *OrphanRepo) ListOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]models.OrphanedObject, error) {
	var orphans []models.OrphanedObject
	err := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&orphans).Error
	return orphans, err
}

func (r *OrphanRepo) Remove(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.OrphanedObject{}, "id = ?", id).Error
}
