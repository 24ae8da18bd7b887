package database

import (
	"context"

	"github.com/anjiri1684/driving_tutor/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepo struct {
	db *gorm.DB
}

func NewMessageRepo(db *gorm.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

func (r *MessageRepo) Create(ctx context.Context, msg *models.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *MessageRepo) ListBySlot(ctx context.Context, slotID uuid.UUID) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.WithContext(ctx).
		Where("slot_id = ?", slotID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	return msgs, err
}
