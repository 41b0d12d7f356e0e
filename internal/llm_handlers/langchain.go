package llmHandlers

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// LangChainClient streams from any OpenAI-compatible endpoint (OpenAI, Groq, ...)
type LangChainClient struct {
	llm llms.Model
}

type LangChainConfig struct {
	Model   string // e.g. "gpt-4.1", "llama-3.1-70b-versatile"
	BaseURL string // optional: for Groq or other OpenAI-compatible APIs
	APIKey  string
}

func NewLangChainClient(cfg LangChainConfig) (*LangChainClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("langchain: %w", ErrMissingCredential)
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
	}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create langchain openai client: %w", err)
	}

	return &LangChainClient{llm: llm}, nil
}

func toLangChainMessages(history []Message, message string) []llms.MessageContent {
	msgContents := make([]llms.MessageContent, 0, len(history)+1)
	for _, m := range history {
		msgType := llms.ChatMessageTypeHuman
		if m.Role == RoleModel {
			msgType = llms.ChatMessageTypeAI
		}
		msgContents = append(msgContents, llms.TextParts(msgType, m.Content))
	}
	return append(msgContents, llms.TextParts(llms.ChatMessageTypeHuman, message))
}

func (c *LangChainClient) ChatStream(ctx context.Context, history []Message, message string, onChunk ChunkHandler) error {
	_, err := c.llm.GenerateContent(ctx, toLangChainMessages(history, message),
		llms.WithStreamingFunc(func(_ context.Context, chunk []byte) error {
			return onChunk(string(chunk))
		}),
	)
	if err != nil {
		return fmt.Errorf("langchain GenerateContent: %w", err)
	}
	return nil
}
