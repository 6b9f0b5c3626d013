package llm

import (
	"context"
	"fmt"
)

// Generator produces text for a system/user prompt pair. Implementations
// return the raw model text, which may be empty.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error)
}

// Client is a Generator bound to a provider SDK.
type Client interface {
	Generator
	// Model returns the provider model the client sends requests to
	Model() string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config.model() == "" {
		return nil, fmt.Errorf("no model configured for tier %s", config.Tier)
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	case ProviderOpenAI:
		return NewOpenAIClient(config, apiKey), nil
	case ProviderAnthropic:
		return NewAnthropicClient(config, apiKey), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", config.Provider)
	}
}
