package client

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiClient implements ChatClient over the Google GenAI SDK, used as the
// alternate few-shot provider.
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates a new Gemini chat client
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiClient{client: client}, nil
}

// Complete sends the conversation to Gemini. The system message becomes the
// system instruction; assistant turns map to the model role.
func (c *GeminiClient) Complete(ctx context.Context, req *ChatRequest) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.JSONMode {
		cfg.ResponseMIMEType = "application/json"
	}

	var contents []*genai.Content
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			cfg.SystemInstruction = genai.NewContentFromText(m.Content, genai.RoleUser)
		case "assistant":
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	result, err := c.client.Models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("call gemini: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("gemini response had no text")
	}
	return text, nil
}
