// Package gemini provides a client for the Google Gemini API, used to
// generate free-text portfolio review commentary.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

// Generator defines the interface for generating narrative content.
// This interface enables dependency injection and testing with mock implementations.
type Generator interface {
	GenerateContent(ctx context.Context, apiKey, prompt string) (string, error)
}

// Client generates content through the Gemini API. The API key is passed
// per call because it can change at runtime through the settings endpoint.
type Client struct {
	model string
}

// NewClient creates a new Gemini client for the given model.
// An empty model selects DefaultModel.
func NewClient(model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{model: model}
}

// GenerateContent generates AI content from a prompt using the given API key.
func (c *Client) GenerateContent(ctx context.Context, apiKey, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(result)
}

// extractTextFromResponse extracts text from a generate content response
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}

	return text, nil
}
