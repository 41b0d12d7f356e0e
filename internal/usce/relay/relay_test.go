package relay

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	llmHandlers "find-usce-backend/internal/llm_handlers"
	"find-usce-backend/internal/models"
	"find-usce-backend/internal/usce/prompts"
)

// fakeClient emits chunks, then err (if any)
type fakeClient struct {
	chunks []string
	err    error

	history []llmHandlers.Message
	message string
}

func (f *fakeClient) ChatStream(ctx context.Context, history []llmHandlers.Message, message string, onChunk llmHandlers.ChunkHandler) error {
	f.history = history
	f.message = message
	for _, c := range f.chunks {
		if err := onChunk(c); err != nil {
			return err
		}
	}
	return f.err
}

// endlessClient streams until its context ends and reports how it stopped
type endlessClient struct {
	stopped chan error
}

func (e *endlessClient) ChatStream(ctx context.Context, history []llmHandlers.Message, message string, onChunk llmHandlers.ChunkHandler) error {
	for {
		if err := onChunk("tick "); err != nil {
			e.stopped <- err
			return err
		}
	}
}

// blockingClient never emits and waits for its context to end
type blockingClient struct{}

func (blockingClient) ChatStream(ctx context.Context, history []llmHandlers.Message, message string, onChunk llmHandlers.ChunkHandler) error {
	<-ctx.Done()
	return ctx.Err()
}

// stallingClient emits one fragment, then goes quiet until its context ends
type stallingClient struct {
	stopped chan error
}

func (c *stallingClient) ChatStream(ctx context.Context, history []llmHandlers.Message, message string, onChunk llmHandlers.ChunkHandler) error {
	if err := onChunk("Hel"); err != nil {
		return err
	}
	<-ctx.Done()
	c.stopped <- ctx.Err()
	return ctx.Err()
}

func userTurn(s string) models.ChatMessage {
	return models.ChatMessage{Role: models.RoleUser, Content: s}
}

func drain(t *testing.T, s *Stream) []Event {
	t.Helper()
	var events []Event
	for {
		ev, ok := s.Next()
		if !ok {
			return events
		}
		events = append(events, ev)
	}
}

func TestRelayStreamsFragmentsInOrder(t *testing.T) {
	client := &fakeClient{chunks: []string{"Hel", "lo"}}
	r := New(client, zaptest.NewLogger(t))

	s, err := r.Open(context.Background(), []models.ChatMessage{userTurn("hi")})
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, Streaming, s.State())
	assert.NotEmpty(t, s.ID)

	events := drain(t, s)
	require.Len(t, events, 3)
	assert.Equal(t, Event{Kind: EventFragment, Text: "Hel"}, events[0])
	assert.Equal(t, Event{Kind: EventFragment, Text: "lo"}, events[1])
	assert.Equal(t, EventDone, events[2].Kind)

	assert.Equal(t, "Hello", s.Text())
	assert.Equal(t, Completed, s.State())

	_, ok := s.Next()
	assert.False(t, ok)
}

func TestRelayWithoutClientIsNotConfigured(t *testing.T) {
	r := New(nil, zaptest.NewLogger(t))

	s, err := r.Open(context.Background(), []models.ChatMessage{userTurn("hi")})
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Nil(t, s)
}

func TestRelayBuildsUpstreamConversation(t *testing.T) {
	client := &fakeClient{chunks: []string{"ok"}}
	r := New(client, zaptest.NewLogger(t))

	messages := []models.ChatMessage{
		userTurn("Which programs take J1?"),
		{Role: models.RoleAssistant, Content: "Several do.", Timestamp: "10:42"},
		userTurn("Any in Texas?"),
	}
	s, err := r.Open(context.Background(), messages)
	require.NoError(t, err)
	drain(t, s)
	s.Close()

	assert.Equal(t, []llmHandlers.Message{
		{Role: llmHandlers.RoleUser, Content: prompts.PERSONA_PROMPT},
		{Role: llmHandlers.RoleModel, Content: prompts.ACKNOWLEDGEMENT},
		{Role: llmHandlers.RoleUser, Content: "Which programs take J1?"},
		{Role: llmHandlers.RoleModel, Content: "Several do."},
	}, client.history)
	assert.Equal(t, "Any in Texas?", client.message)
}

func TestRelayRejectsInvalidConversations(t *testing.T) {
	r := New(&fakeClient{}, zaptest.NewLogger(t))

	_, err := r.Open(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidConversation)

	_, err = r.Open(context.Background(), []models.ChatMessage{
		userTurn("hi"),
		{Role: models.RoleAssistant, Content: "hello"},
	})
	assert.ErrorIs(t, err, ErrInvalidConversation)
}

func TestRelayUpstreamErrorBeforeStreaming(t *testing.T) {
	upstream := errors.New("permission denied")
	r := New(&fakeClient{err: upstream}, zaptest.NewLogger(t))

	s, err := r.Open(context.Background(), []models.ChatMessage{userTurn("hi")})
	assert.ErrorIs(t, err, upstream)
	assert.Nil(t, s)
}

func TestRelayUpstreamErrorWhileStreaming(t *testing.T) {
	upstream := errors.New("connection reset")
	r := New(&fakeClient{chunks: []string{"Partial ", "answer"}, err: upstream}, zaptest.NewLogger(t))

	s, err := r.Open(context.Background(), []models.ChatMessage{userTurn("hi")})
	require.NoError(t, err)
	defer s.Close()

	events := drain(t, s)
	require.Len(t, events, 3)
	assert.Equal(t, EventError, events[2].Kind)
	assert.ErrorIs(t, events[2].Err, upstream)
	assert.Equal(t, "Partial answer", s.Text())
	assert.Equal(t, Failed, s.State())
}

func TestRelayCloseStopsUpstream(t *testing.T) {
	client := &endlessClient{stopped: make(chan error, 1)}
	r := New(client, zaptest.NewLogger(t))

	s, err := r.Open(context.Background(), []models.ChatMessage{userTurn("hi")})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		ev, ok := s.Next()
		require.True(t, ok)
		assert.Equal(t, EventFragment, ev.Kind)
	}
	s.Close()
	assert.Equal(t, Failed, s.State())

	select {
	case err := <-client.stopped:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("upstream kept streaming after Close")
	}
}

func TestRelayMaxDuration(t *testing.T) {
	r := New(blockingClient{}, zaptest.NewLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := r.Open(ctx, []models.ChatMessage{userTurn("hi")})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStateTransitions(t *testing.T) {
	assert.False(t, Streaming.Terminal())
	assert.True(t, Completed.Terminal())
	assert.True(t, Failed.Terminal())
	assert.Equal(t, "forwarding", Forwarding.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestStreamNextWithinReportsIdleUpstream(t *testing.T) {
	client := &stallingClient{stopped: make(chan error, 1)}
	r := New(client, zaptest.NewLogger(t))

	s, err := r.Open(context.Background(), []models.ChatMessage{userTurn("hi")})
	require.NoError(t, err)

	ev, ok, idle := s.NextWithin(20 * time.Millisecond)
	require.True(t, ok)
	assert.False(t, idle)
	assert.Equal(t, Event{Kind: EventFragment, Text: "Hel"}, ev)

	_, ok, idle = s.NextWithin(20 * time.Millisecond)
	assert.False(t, ok)
	assert.True(t, idle)
	assert.Equal(t, Streaming, s.State())

	s.Close()
	assert.Equal(t, Failed, s.State())
	select {
	case err := <-client.stopped:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("upstream still open after Close")
	}
}
