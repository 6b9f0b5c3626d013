package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderOpenAI, config.Provider)
	assert.Equal(t, "gpt-4o-mini", config.GetModel(TierStandard))
	assert.Equal(t, "gpt-4o-mini", config.model())
	assert.Equal(t, DefaultMaxTokens, config.maxTokens())
}

func TestDefaultGeminiConfig(t *testing.T) {
	config := DefaultGeminiConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
}

func TestDefaultConfigFor(t *testing.T) {
	for _, p := range []Provider{ProviderGemini, ProviderOpenAI, ProviderAnthropic} {
		config, err := DefaultConfigFor(p)
		require.NoError(t, err)
		assert.Equal(t, p, config.Provider)
		assert.NotEmpty(t, config.model())
	}

	_, err := DefaultConfigFor("mistral")
	assert.Error(t, err)
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite: "fallback-model",
		},
	}

	// Unknown tier should fallback to TierStandard, then TierLite
	assert.Equal(t, "fallback-model", config.GetModel("unknown"))
}

func TestGetModel_EmptyConfig(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{},
	}

	// Empty config should return empty string
	assert.Equal(t, "", config.GetModel(TierAdvanced))
}

func TestWithModel(t *testing.T) {
	config := DefaultGeminiConfig()
	newConfig := config.WithModel(TierAdvanced, "custom-model")

	// Original should be unchanged
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))

	// New config should have custom model
	assert.Equal(t, "custom-model", newConfig.GetModel(TierAdvanced))

	// Other tiers and limits should be copied
	assert.Equal(t, "gemini-2.5-flash-lite", newConfig.GetModel(TierLite))
	assert.Equal(t, config.MaxTokens, newConfig.MaxTokens)
}

func TestMaxTokens_DefaultWhenUnset(t *testing.T) {
	config := &Config{Models: map[ModelTier]string{TierStandard: "m"}}
	assert.Equal(t, DefaultMaxTokens, config.maxTokens())
}

func TestNewClient_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewClient(ctx, DefaultConfig(), "")
	assert.ErrorContains(t, err, "API key is required")

	_, err = NewClient(ctx, &Config{Provider: ProviderOpenAI, Models: map[ModelTier]string{}}, "key")
	assert.ErrorContains(t, err, "no model configured")

	_, err = NewClient(ctx, &Config{Provider: "mistral", Models: map[ModelTier]string{TierStandard: "m"}}, "key")
	assert.ErrorContains(t, err, "unknown LLM provider")
}

func TestNewClient_Providers(t *testing.T) {
	ctx := context.Background()

	client, err := NewClient(ctx, DefaultOpenAIConfig(), "key")
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, client)
	assert.Equal(t, "gpt-4o-mini", client.Model())
	assert.NoError(t, client.Close())

	client, err = NewClient(ctx, DefaultAnthropicConfig(), "key")
	require.NoError(t, err)
	assert.IsType(t, &AnthropicClient{}, client)
	assert.NoError(t, client.Close())
}

func TestProviderConstants(t *testing.T) {
	assert.Equal(t, Provider("gemini"), ProviderGemini)
	assert.Equal(t, Provider("openai"), ProviderOpenAI)
	assert.Equal(t, Provider("anthropic"), ProviderAnthropic)
}
