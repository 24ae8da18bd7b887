package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/anjiri1684/driving_tutor/models"
	"github.com/anjiri1684/driving_tutor/services"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const authFrameTimeout = 10 * time.Second

// FeedClosedMessage is the last frame of a session whose live feed ended.
const FeedClosedMessage = "Live chat disconnected, please reconnect"

type socketFrame struct {
	Type    string `json:"type"`
	Token   string `json:"token,omitempty"`
	Content string `json:"content,omitempty"`
}

// RequireUpgrade rejects plain HTTP requests to a WebSocket route.
func RequireUpgrade(c *fiber.Ctx) error {
	if !websocketcontrib.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}

// ChatSocket is one participant's live view of a slot chat. The first frame
// must be {"type":"auth","token":...}. Afterwards the client sends
// {"type":"message","content":...} frames and receives the other
// participant's messages as they are appended.
func (h *Handlers) ChatSocket(conn *websocketcontrib.Conn) {
	defer conn.Close()

	slotID, err := uuid.Parse(conn.Params("slotId"))
	if err != nil {
		_ = conn.WriteJSON(fiber.Map{"type": "error", "error": "Invalid slotId"})
		return
	}

	p, ok := h.authenticateSocket(conn)
	if !ok {
		return
	}
	log := h.logger.With(zap.String("slot_id", slotID.String()), zap.String("user_id", p.UserID.String()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := h.svc.Chat.Subscribe(ctx, p, slotID)
	if err != nil {
		if isInternal(err) {
			log.Error("chat subscribe failed", zap.Error(err))
		}
		_ = conn.WriteJSON(fiber.Map{"type": "error", "error": socketError(err)})
		return
	}

	var writeMu sync.Mutex
	write := func(v interface{}) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(v)
	}

	forwarded := make(chan struct{})
	go func() {
		defer close(forwarded)
		for msg := range sub.Messages() {
			if msg.SenderID == p.UserID {
				continue
			}
			if err := write(fiber.Map{"type": "message", "message": msg}); err != nil {
				log.Debug("chat write failed", zap.Error(err))
				cancel()
				return
			}
		}
		if ctx.Err() != nil {
			return
		}
		// The feed dropped this subscriber. End the session so the client
		// reconnects instead of sending into a view that no longer updates.
		log.Warn("chat feed ended")
		_ = write(fiber.Map{"type": "error", "error": FeedClosedMessage})
		cancel()
		_ = conn.Close()
	}()

	defer func() {
		cancel()
		sub.Close()
		<-forwarded
		log.Debug("chat subscription released")
	}()

	if err := write(fiber.Map{"type": "ready", "channel": sub.Channel}); err != nil {
		return
	}
	h.readChatFrames(ctx, conn, p, slotID, write, log)
}

func (h *Handlers) readChatFrames(ctx context.Context, conn *websocketcontrib.Conn, p services.Principal, slotID uuid.UUID, write func(interface{}) error, log *zap.Logger) {
	for {
		var frame socketFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if !websocketcontrib.IsCloseError(err, websocketcontrib.CloseNormalClosure, websocketcontrib.CloseGoingAway) {
				log.Debug("chat read ended", zap.Error(err))
			}
			return
		}
		if ctx.Err() != nil {
			return
		}
		if frame.Type != "message" {
			_ = write(fiber.Map{"type": "error", "error": "unsupported frame type"})
			continue
		}

		msg, err := h.svc.Chat.Send(ctx, p, slotID, frame.Content)
		if err != nil {
			if isInternal(err) {
				log.Error("chat send failed", zap.Error(err))
			}
			if werr := write(fiber.Map{"type": "error", "error": socketError(err)}); werr != nil {
				return
			}
			continue
		}
		if err := write(ackFrame(msg)); err != nil {
			return
		}
	}
}

func (h *Handlers) authenticateSocket(conn *websocketcontrib.Conn) (services.Principal, bool) {
	_ = conn.SetReadDeadline(time.Now().Add(authFrameTimeout))
	var frame socketFrame
	if err := conn.ReadJSON(&frame); err != nil || frame.Type != "auth" {
		_ = conn.WriteJSON(fiber.Map{"type": "error", "error": "Invalid or missing auth message"})
		return services.Principal{}, false
	}
	_ = conn.SetReadDeadline(time.Time{})

	p, err := h.svc.Auth.ParseToken(frame.Token)
	if err != nil {
		_ = conn.WriteJSON(fiber.Map{"type": "error", "error": "Invalid token"})
		return services.Principal{}, false
	}
	return p, true
}

func ackFrame(msg *models.Message) fiber.Map {
	return fiber.Map{"type": "ack", "message": msg}
}

func isInternal(err error) bool {
	return StatusFor(err) == fiber.StatusInternalServerError
}

func socketError(err error) string {
	if isInternal(err) {
		return "Something went wrong, please try again"
	}
	return err.Error()
}
