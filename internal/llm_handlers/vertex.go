package llmHandlers

import (
	"context"
	"fmt"

	"cloud.google.com/go/auth"
	"google.golang.org/genai"
)

type VertexConfig struct {
	ProjectID string
	Location  string
	// nil uses application default credentials
	Credentials *auth.Credentials
}

// NewGenaiVertexClient returns a Gemini client routed through Vertex AI
func NewGenaiVertexClient(ctx context.Context, cfg VertexConfig, modelID string) (*GenaiGeminiClient, error) {
	cc, err := vertexClientConfig(cfg)
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient (vertex): %w", err)
	}

	return newGenaiGeminiClient(client.Models, modelID), nil
}

func vertexClientConfig(cfg VertexConfig) (*genai.ClientConfig, error) {
	if cfg.ProjectID == "" || cfg.Location == "" {
		return nil, fmt.Errorf("vertex: %w", ErrMissingCredential)
	}
	return &genai.ClientConfig{
		Backend:     genai.BackendVertexAI,
		Project:     cfg.ProjectID,
		Location:    cfg.Location,
		Credentials: cfg.Credentials,
	}, nil
}
