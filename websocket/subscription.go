package websocket

import (
	"sync"

	"github.com/anjiri1684/driving_tutor/models"
)

const subscriptionBuffer = 64

// Subscription is a live feed of messages appended to one slot's chat.
// Holders must call Close when they stop reading; Close is idempotent and
// closes the Messages channel.
type Subscription struct {
	Channel string

	messages chan *models.Message
	done     chan struct{}
	release  func()
	once     sync.Once
	mu       sync.Mutex
	closed   bool
}

func newSubscription(channel string) *Subscription {
	return &Subscription{
		Channel:  channel,
		messages: make(chan *models.Message, subscriptionBuffer),
		done:     make(chan struct{}),
	}
}

func (s *Subscription) Messages() <-chan *models.Message {
	return s.messages
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		close(s.done)
		if s.release != nil {
			s.release()
		}
		s.shut()
	})
}

// deliver hands msg to the reader without blocking. It reports false when the
// subscription is closed or its buffer is full.
func (s *Subscription) deliver(msg *models.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.messages <- msg:
		return true
	default:
		return false
	}
}

func (s *Subscription) shut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.messages)
	}
}
