package handlers

import (
	"bufio"
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"find-usce-backend/internal/libraries"
	"find-usce-backend/internal/models"
	"find-usce-backend/internal/usce/relay"
)

// keepAliveInterval bounds how long a quiet upstream delays noticing a
// dropped client
const keepAliveInterval = 15 * time.Second

type ChatHandler struct {
	relay       *relay.Relay
	validate    *validator.Validate
	maxDuration time.Duration
	keepAlive   time.Duration
	log         *zap.Logger
}

func NewChatHandler(relay *relay.Relay, maxDuration time.Duration, log *zap.Logger) *ChatHandler {
	return &ChatHandler{
		relay:       relay,
		validate:    validator.New(),
		maxDuration: maxDuration,
		keepAlive:   keepAliveInterval,
		log:         log,
	}
}

type chatRequest struct {
	Messages []models.ChatMessage `json:"messages" validate:"required,min=1,dive"`
}

// StreamChat relays the assistant reply as server-sent events
func (h *ChatHandler) StreamChat(c *fiber.Ctx) error {
	if !h.relay.Configured() {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "API key not configured",
		})
	}

	var dto chatRequest
	if err := c.BodyParser(&dto); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := h.validate.Struct(&dto); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// the body is written after this handler returns, so the stream
	// cannot hang off the request context
	ctx, cancel := context.WithTimeout(context.Background(), h.maxDuration)

	stream, err := h.relay.Open(ctx, dto.Messages)
	if err != nil {
		cancel()
		switch {
		case errors.Is(err, relay.ErrNotConfigured):
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "API key not configured",
			})
		case errors.Is(err, relay.ErrInvalidConversation):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		default:
			h.log.Error("Chat API error", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		}
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		defer stream.Close()

		events := libraries.NewEventWriter(w)
		for {
			ev, ok, idle := stream.NextWithin(h.keepAlive)
			if idle {
				if err := events.WriteComment("ping"); err != nil {
					h.log.Info("chat client disconnected", zap.String("stream_id", stream.ID), zap.Error(err))
					return
				}
				continue
			}
			if !ok {
				return
			}

			var err error
			switch ev.Kind {
			case relay.EventFragment:
				err = events.WriteFragment(ev.Text)
			case relay.EventDone:
				err = events.WriteDone()
			case relay.EventError:
				err = events.WriteError("Internal server error")
			}
			if err != nil {
				h.log.Info("chat client disconnected", zap.String("stream_id", stream.ID), zap.Error(err))
				return
			}
		}
	})

	return nil
}
