package llmHandlers

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// NewGenerator returns the genai models service for one-shot generation.
// Only the genai-backed providers can serve it.
func NewGenerator(ctx context.Context, cfg Config) (*genai.Models, error) {
	var (
		cc  *genai.ClientConfig
		err error
	)

	switch cfg.Provider {
	case ProviderGemini:
		cc, err = geminiClientConfig(cfg.GeminiAPIKey)
	case ProviderVertex:
		cc, err = vertexClientConfig(cfg.Vertex)
	default:
		return nil, fmt.Errorf("provider %s cannot run enrichment", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}
	return client.Models, nil
}
