package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethanbaker/hq-console/pkg/utils"
)

// Backend sends one prompt with a required output shape and returns the raw
// response text, expected to be JSON matching schema
type Backend interface {
	Generate(ctx context.Context, prompt string, schema *Schema) (string, error)
}

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	defaultGeminiModel = "gemini-2.5-flash"
	defaultOpenAIModel = "gpt-4o-mini"
)

// NewBackend creates the provider named by GENERATION_PROVIDER (gemini by default)
func NewBackend(ctx context.Context, cfg *utils.Config) (Backend, error) {
	provider := strings.ToLower(cfg.GetWithDefault("GENERATION_PROVIDER", ProviderGemini))

	switch provider {
	case ProviderGemini:
		if err := cfg.Require("GEMINI_API_KEY"); err != nil {
			return nil, err
		}
		return NewGeminiBackend(ctx, GeminiConfig{
			APIKey: cfg.Get("GEMINI_API_KEY"),
			Model:  cfg.GetWithDefault("MODEL", defaultGeminiModel),
		})

	case ProviderOpenAI:
		if err := cfg.Require("OPENAI_API_KEY"); err != nil {
			return nil, err
		}
		return NewOpenAIBackend(OpenAIConfig{
			APIKey: cfg.Get("OPENAI_API_KEY"),
			Model:  cfg.GetWithDefault("MODEL", defaultOpenAIModel),
		}), nil

	default:
		return nil, fmt.Errorf("unknown generation provider '%s'", provider)
	}
}
