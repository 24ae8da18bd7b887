package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anjiri1684/driving_tutor/models"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisFeed fans chat messages out through Redis pub/sub so every API
// instance sees messages appended by any other.
type RedisFeed struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewRedisClient parses a redis:// URL and pings the server.
func NewRedisClient(url string, logger *zap.Logger) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", opts.Addr))
	return rdb, nil
}

func NewRedisFeed(rdb *goredis.Client, logger *zap.Logger) *RedisFeed {
	return &RedisFeed{rdb: rdb, logger: logger}
}

func (f *RedisFeed) Publish(ctx context.Context, slotID uuid.UUID, msg *models.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode chat message: %w", err)
	}
	if err := f.rdb.Publish(ctx, ChannelName(slotID), payload).Err(); err != nil {
		return fmt.Errorf("publish chat message: %w", err)
	}
	return nil
}

// Subscribe opens a Redis subscription for the slot. Closing the returned
// Subscription (or cancelling ctx) closes the underlying PubSub.
func (f *RedisFeed) Subscribe(ctx context.Context, slotID uuid.UUID) (*Subscription, error) {
	channel := ChannelName(slotID)
	ps := f.rdb.Subscribe(ctx, channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", channel, err)
	}

	sub := newSubscription(channel)
	sub.release = func() {
		if err := ps.Close(); err != nil {
			f.logger.Warn("closing redis subscription", zap.String("channel", channel), zap.Error(err))
		}
	}

	go func() {
		defer sub.shut()
		in := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				sub.Close()
				return
			case <-sub.done:
				return
			case raw, ok := <-in:
				if !ok {
					return
				}
				var msg models.Message
				if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
					f.logger.Warn("undecodable chat payload", zap.String("channel", channel), zap.Error(err))
					continue
				}
				if !sub.deliver(&msg) {
					f.logger.Warn("dropping slow chat subscriber", zap.String("channel", channel))
					sub.Close()
					return
				}
			}
		}
	}()

	return sub, nil
}
