package llmHandlers

import (
	"context"
	"errors"
)

// MessageRole is a role in the upstream two-party model
type MessageRole string

const (
	RoleUser  MessageRole = "user"
	RoleModel MessageRole = "model"
)

type Message struct {
	Role    MessageRole
	Content string
}

// ChunkHandler receives each streamed text fragment in arrival order.
// Returning an error stops the stream and is returned by ChatStream.
type ChunkHandler func(text string) error

// Client streams a reply to message given the prior history
type Client interface {
	ChatStream(ctx context.Context, history []Message, message string, onChunk ChunkHandler) error
}

// ErrMissingCredential means the selected provider has no API key or project
var ErrMissingCredential = errors.New("llm credential not configured")
