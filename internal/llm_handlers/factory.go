package llmHandlers

import (
	"context"
	"fmt"
)

type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderVertex    Provider = "vertex"
	ProviderLangChain Provider = "langchain" // openai / groq / llama etc.
)

type Config struct {
	Provider Provider

	// Gemini API config, also supplies the model id for Vertex
	GeminiAPIKey  string
	GeminiModelID string

	Vertex    VertexConfig
	LangChain LangChainConfig
}

// New builds the streaming client for cfg.Provider. It wraps
// ErrMissingCredential when the provider is not configured.
func New(ctx context.Context, cfg Config) (Client, error) {
	var (
		client Client
		err    error
	)

	switch cfg.Provider {
	case ProviderGemini:
		client, err = NewGenaiGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
	case ProviderVertex:
		client, err = NewGenaiVertexClient(ctx, cfg.Vertex, cfg.GeminiModelID)
	case ProviderLangChain:
		client, err = NewLangChainClient(cfg.LangChain)
	default:
		return nil, fmt.Errorf("unknown provider %s", cfg.Provider)
	}

	// keep a typed nil pointer out of the interface
	if err != nil {
		return nil, err
	}
	return client, nil
}
