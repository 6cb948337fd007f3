package services

import (
	"context"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// TextGenerator is the opaque LLM collaborator behind all AI endpoints.
// Implementations may fail; callers own fallbacks and retries.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GeminiClient generates text through Google's Gemini models.
type GeminiClient struct {
	llm *googleai.GoogleAI
}

// NewGeminiClient builds a client for the configured model. The API key is
// required; model defaults are handled by config.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, err
	}
	return &GeminiClient{llm: llm}, nil
}

// GenerateText runs a single-prompt completion and returns the raw text.
func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, c.llm, prompt)
}
