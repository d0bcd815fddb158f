package generation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// OpenAIConfig configures the OpenAI backend. BaseURL is only set in tests
type OpenAIConfig struct {
	APIKey      string
	Model       string
	Temperature float64
	BaseURL     string
}

// OpenAIBackend generates JSON through chat completions with a JSON schema response format
type OpenAIBackend struct {
	client      openai.Client
	model       string
	temperature float64
}

// NewOpenAIBackend creates an OpenAI client. Failed requests are never retried
func NewOpenAIBackend(cfg OpenAIConfig) *OpenAIBackend {
	if cfg.Model == "" {
		cfg.Model = defaultOpenAIModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIBackend{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}
}

// Generate implements Backend
func (b *OpenAIBackend) Generate(ctx context.Context, prompt string, schema *Schema) (string, error) {
	name := schema.Name
	if name == "" {
		name = "response"
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(b.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   name,
					Schema: schema.JSONSchema(),
					Strict: openai.Bool(false),
				},
			},
		},
		Temperature: openai.Float(b.temperature),
	}

	resp, err := b.client.Chat.Completions.New(ctx, params)
	if err != nil {
		log.Printf("[GENERATION]: OpenAI request failed: %v", err)

		var apiErr *openai.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %v", ErrQuota, err)
		}
		return "", fmt.Errorf("openai request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("openai returned an empty response")
	}

	return text, nil
}
