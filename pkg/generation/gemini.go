package generation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"log"
	"strings"

	"google.golang.org/genai"
)

// GeminiConfig configures the Gemini backend. BaseURL is only set in tests
type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	BaseURL     string
}

// GeminiBackend generates JSON through the Gemini API with a response schema
type GeminiBackend struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGeminiBackend creates a Gemini client
func NewGeminiBackend(ctx context.Context, cfg GeminiConfig) (*GeminiBackend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiBackend{client: client, model: cfg.Model, temperature: cfg.Temperature}, nil
}

// Generate implements Backend
func (b *GeminiBackend) Generate(ctx context.Context, prompt string, schema *Schema) (string, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema.GenAI(),
		Temperature:      genai.Ptr(b.temperature),
	}

	resp, err := b.client.Models.GenerateContent(ctx, b.model, genai.Text(prompt), config)
	if err != nil {
		log.Printf("[GENERATION]: Gemini request failed: %v", err)
		if isGeminiQuota(err) {
			return "", fmt.Errorf("%w: %v", ErrQuota, err)
		}
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}

	return text, nil
}

func isGeminiQuota(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED"
	}

	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.Code == http.StatusTooManyRequests || apiErrPtr.Status == "RESOURCE_EXHAUSTED"
	}

	return false
}
