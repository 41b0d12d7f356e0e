// Package relay forwards a conversation to the upstream model and hands
// the streamed reply back fragment by fragment.
package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	llmHandlers "find-usce-backend/internal/llm_handlers"
	"find-usce-backend/internal/models"
	"find-usce-backend/internal/usce/prompts"
)

var (
	// ErrNotConfigured means no upstream credential was configured
	ErrNotConfigured = errors.New("API key not configured")
	// ErrInvalidConversation covers empty conversations and a last turn
	// that is not from the user
	ErrInvalidConversation = errors.New("invalid conversation")

	errStreamClosed = errors.New("upstream stream closed")
)

type Relay struct {
	client  llmHandlers.Client
	log     *zap.Logger
	persona string
	ack     string
}

// New returns a relay over client. A nil client is allowed and makes every
// request fail with ErrNotConfigured.
func New(client llmHandlers.Client, log *zap.Logger) *Relay {
	return &Relay{
		client:  client,
		log:     log.With(zap.String("component", "chat_relay")),
		persona: prompts.PERSONA_PROMPT,
		ack:     prompts.ACKNOWLEDGEMENT,
	}
}

// Configured reports whether a model client is available
func (r *Relay) Configured() bool {
	return r.client != nil
}

// BuildHistory returns the upstream history (persona turn, acknowledgement,
// then every message but the last) and the new user turn.
func BuildHistory(persona, ack string, messages []models.ChatMessage) ([]llmHandlers.Message, string) {
	prior := messages[:len(messages)-1]

	history := make([]llmHandlers.Message, 0, len(prior)+2)
	history = append(history,
		llmHandlers.Message{Role: llmHandlers.RoleUser, Content: persona},
		llmHandlers.Message{Role: llmHandlers.RoleModel, Content: ack},
	)
	for _, m := range prior {
		role := llmHandlers.RoleModel
		if m.Role == models.RoleUser {
			role = llmHandlers.RoleUser
		}
		history = append(history, llmHandlers.Message{Role: role, Content: m.Content})
	}

	return history, messages[len(messages)-1].Content
}

func validate(messages []models.ChatMessage) error {
	if len(messages) == 0 {
		return fmt.Errorf("%w: no messages", ErrInvalidConversation)
	}
	if last := messages[len(messages)-1]; last.Role != models.RoleUser {
		return fmt.Errorf("%w: last message has role %q", ErrInvalidConversation, last.Role)
	}
	return nil
}

// Open validates the request, starts the upstream stream and waits for its
// first event. Errors returned here happen before any output; later upstream
// errors arrive as an EventError from Stream.Next.
//
// The stream lives until Close is called or ctx ends, so callers pass a
// context carrying the request's maximum duration.
func (r *Relay) Open(ctx context.Context, messages []models.ChatMessage) (*Stream, error) {
	s := &Stream{
		ID:      uuid.NewString(),
		state:   Idle,
		started: time.Now(),
	}
	s.log = r.log.With(zap.String("stream_id", s.ID))

	s.transition(Validating)
	if r.client == nil {
		s.fail()
		return nil, ErrNotConfigured
	}
	if err := validate(messages); err != nil {
		s.fail()
		return nil, err
	}

	s.transition(Forwarding)
	history, message := BuildHistory(r.persona, r.ack, messages)
	s.log.Debug("forwarding conversation", zap.Int("history", len(history)))

	ctx, cancel := context.WithCancel(ctx)
	events := make(chan Event)
	go pump(ctx, r.client, history, message, events)

	first, ok := <-events
	if !ok {
		first = Event{Kind: EventError, Err: closedErr(ctx)}
	}
	if first.Kind == EventError {
		cancel()
		s.fail()
		s.log.Error("upstream failed before streaming", zap.Error(first.Err))
		return nil, fmt.Errorf("open upstream stream: %w", first.Err)
	}

	s.events = events
	s.ctx = ctx
	s.cancel = cancel
	s.pending = &first
	s.transition(Streaming)
	return s, nil
}

// pump copies upstream fragments into events in arrival order. Every send
// gives up once ctx is done, so a vanished reader never blocks it.
func pump(ctx context.Context, client llmHandlers.Client, history []llmHandlers.Message, message string, events chan<- Event) {
	defer close(events)

	send := func(ev Event) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	err := client.ChatStream(ctx, history, message, func(text string) error {
		if !send(Event{Kind: EventFragment, Text: text}) {
			return ctx.Err()
		}
		return nil
	})
	if err != nil {
		send(Event{Kind: EventError, Err: err})
		return
	}
	send(Event{Kind: EventDone})
}

func closedErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return errStreamClosed
}
