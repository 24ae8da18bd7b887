package websocket

import (
	"context"
	"errors"
	"fmt"

	"github.com/anjiri1684/driving_tutor/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrHubStopped = errors.New("chat hub is not running")

// ChannelName is the feed key of a slot's chat.
func ChannelName(slotID uuid.UUID) string {
	return fmt.Sprintf("chat:slot:%s", slotID)
}

type envelope struct {
	channel string
	message *models.Message
}

// Hub fans messages out to subscribers inside this process.
type Hub struct {
	register   chan *Subscription
	unregister chan *Subscription
	broadcast  chan envelope
	done       chan struct{}

	rooms  map[string]map[*Subscription]struct{}
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		register:   make(chan *Subscription),
		unregister: make(chan *Subscription),
		broadcast:  make(chan envelope, 256),
		done:       make(chan struct{}),
		rooms:      make(map[string]map[*Subscription]struct{}),
		logger:     logger,
	}
}

// Run owns the room table until ctx is cancelled. All open subscriptions are
// closed on exit.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, room := range h.rooms {
				for sub := range room {
					sub.shut()
				}
			}
			h.rooms = nil
			return

		case sub := <-h.register:
			room, ok := h.rooms[sub.Channel]
			if !ok {
				room = make(map[*Subscription]struct{})
				h.rooms[sub.Channel] = room
			}
			room[sub] = struct{}{}
			h.logger.Debug("chat subscriber registered", zap.String("channel", sub.Channel), zap.Int("subscribers", len(room)))

		case sub := <-h.unregister:
			h.remove(sub)

		case env := <-h.broadcast:
			for sub := range h.rooms[env.channel] {
				if !sub.deliver(env.message) {
					h.logger.Warn("dropping slow chat subscriber", zap.String("channel", env.channel))
					h.remove(sub)
					sub.shut()
				}
			}
		}
	}
}

func (h *Hub) remove(sub *Subscription) {
	room, ok := h.rooms[sub.Channel]
	if !ok {
		return
	}
	delete(room, sub)
	if len(room) == 0 {
		delete(h.rooms, sub.Channel)
	}
	h.logger.Debug("chat subscriber released", zap.String("channel", sub.Channel))
}

func (h *Hub) Publish(ctx context.Context, slotID uuid.UUID, msg *models.Message) error {
	select {
	case <-h.done:
		return ErrHubStopped
	default:
	}
	select {
	case h.broadcast <- envelope{channel: ChannelName(slotID), message: msg}:
		return nil
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe opens a feed for the slot. It is released by Close or when ctx ends.
func (h *Hub) Subscribe(ctx context.Context, slotID uuid.UUID) (*Subscription, error) {
	sub := newSubscription(ChannelName(slotID))
	sub.release = func() {
		select {
		case h.unregister <- sub:
		case <-h.done:
		}
	}

	select {
	case h.register <- sub:
	case <-h.done:
		return nil, ErrHubStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	go func() {
		select {
		case <-ctx.Done():
			sub.Close()
		case <-sub.done:
		case <-h.done:
		}
	}()
	return sub, nil
}
