package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anjiri1684/driving_tutor/models"
	"github.com/anjiri1684/driving_tutor/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ChatService is the append-only message log of a confirmed booking.
type ChatService struct {
	slots    SlotStore
	messages MessageStore
	feed     Feed
	logger   *zap.Logger
	now      func() time.Time
}

func NewChatService(slots SlotStore, messages MessageStore, feed Feed, logger *zap.Logger) *ChatService {
	return &ChatService{
		slots:    slots,
		messages: messages,
		feed:     feed,
		logger:   logger,
		now:      time.Now,
	}
}

// History returns every message of the channel, oldest first.
func (s *ChatService) History(ctx context.Context, actor Principal, slotID uuid.UUID) ([]models.Message, error) {
	if _, err := s.channel(ctx, actor, slotID); err != nil {
		return nil, err
	}
	msgs, err := s.messages.ListBySlot(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}
	return msgs, nil
}

// Send appends a message and pushes it to live subscribers. The persisted
// message is returned even if the live push fails.
func (s *ChatService) Send(ctx context.Context, actor Principal, slotID uuid.UUID, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if _, err := s.channel(ctx, actor, slotID); err != nil {
		return nil, err
	}

	msg := &models.Message{
		SlotID:    slotID,
		SenderID:  actor.UserID,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("save chat message: %w", err)
	}

	if err := s.feed.Publish(ctx, slotID, msg); err != nil {
		s.logger.Warn("chat message saved but not pushed",
			zap.String("slot_id", slotID.String()),
			zap.String("message_id", msg.ID.String()),
			zap.Error(err),
		)
	}
	return msg, nil
}

// Subscribe opens the live feed of the channel for a participant. The caller
// owns the subscription and must Close it.
func (s *ChatService) Subscribe(ctx context.Context, actor Principal, slotID uuid.UUID) (*websocket.Subscription, error) {
	if _, err := s.channel(ctx, actor, slotID); err != nil {
		return nil, err
	}
	sub, err := s.feed.Subscribe(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("open chat feed: %w", err)
	}
	s.logger.Debug("chat subscription opened",
		zap.String("slot_id", slotID.String()),
		zap.String("user_id", actor.UserID.String()),
	)
	return sub, nil
}

func (s *ChatService) channel(ctx context.Context, actor Principal, slotID uuid.UUID) (*models.Slot, error) {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("load slot: %w", err)
	}
	if !slot.IsParticipant(actor.UserID) {
		return nil, ErrNotParticipant
	}
	if slot.State != models.SlotConfirmed {
		return nil, ErrChatUnavailable
	}
	return slot, nil
}
