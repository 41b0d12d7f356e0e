package llmHandlers

import (
	"context"
	"fmt"
	"iter"

	"google.golang.org/genai"
)

// contentStreamer is the part of genai.Models used for chat
type contentStreamer interface {
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
}

// GenaiGeminiClient implements Client over the genai SDK. The same type
// serves both the Gemini API and the Vertex AI backend.
type GenaiGeminiClient struct {
	models  contentStreamer
	modelID string
	config  *genai.GenerateContentConfig
}

func NewGenaiGeminiClient(ctx context.Context, apiKey, modelID string) (*GenaiGeminiClient, error) {
	cc, err := geminiClientConfig(apiKey)
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	return newGenaiGeminiClient(client.Models, modelID), nil
}

func geminiClientConfig(apiKey string) (*genai.ClientConfig, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: %w", ErrMissingCredential)
	}
	return &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}, nil
}

func newGenaiGeminiClient(models contentStreamer, modelID string) *GenaiGeminiClient {
	return &GenaiGeminiClient{
		models:  models,
		modelID: modelID,
		config: &genai.GenerateContentConfig{
			SafetySettings: []*genai.SafetySetting{
				{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
				{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
			},
		},
	}
}

// convertMessagesToGenaiContent converts our Message format to genai.Content
func convertMessagesToGenaiContent(messages []Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages)+1)
	for _, m := range messages {
		role := genai.RoleUser
		if m.Role == RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, genai.Role(role)))
	}
	return contents
}

func (v *GenaiGeminiClient) ChatStream(ctx context.Context, history []Message, message string, onChunk ChunkHandler) error {
	contents := convertMessagesToGenaiContent(history)
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	for resp, err := range v.models.GenerateContentStream(ctx, v.modelID, contents, v.config) {
		if err != nil {
			return fmt.Errorf("gemini GenerateContentStream: %w", err)
		}
		if err := onChunk(resp.Text()); err != nil {
			return err
		}
	}
	return nil
}
