package llm

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient implements Client with the Anthropic messages API.
type AnthropicClient struct {
	client anthropic.Client
	config *Config
}

// NewAnthropicClient creates a new Anthropic client
func NewAnthropicClient(config *Config, apiKey string, opts ...option.RequestOption) *AnthropicClient {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &AnthropicClient{
		client: anthropic.NewClient(opts...),
		config: config,
	}
}

// Generate sends one user message and concatenates the text blocks of the reply.
func (c *AnthropicClient) Generate(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.config.model()),
		MaxTokens:   int64(c.config.maxTokens()),
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt))},
		Temperature: anthropic.Float(float64(temperature)),
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: systemPrompt},
		}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", &APICallError{Provider: ProviderAnthropic, Message: "message request failed", Cause: err}
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

// Model returns the configured model name
func (c *AnthropicClient) Model() string {
	return c.config.model()
}

// Close is a no-op; the HTTP client holds no resources.
func (c *AnthropicClient) Close() error {
	return nil
}
