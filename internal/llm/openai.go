package llm

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAIClient implements Client with the OpenAI chat completions API.
type OpenAIClient struct {
	client openai.Client
	config *Config
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(config *Config, apiKey string, opts ...option.RequestOption) *OpenAIClient {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAIClient{
		client: openai.NewClient(opts...),
		config: config,
	}
}

// Generate sends a system and a user message and returns the first choice.
func (c *OpenAIClient) Generate(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}
	messages = append(messages, openai.UserMessage(userPrompt))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(c.config.model()),
		Messages:    messages,
		MaxTokens:   openai.Int(int64(c.config.maxTokens())),
		Temperature: openai.Float(float64(temperature)),
	})
	if err != nil {
		return "", &APICallError{Provider: ProviderOpenAI, Message: "chat completion failed", Cause: err}
	}
	if len(resp.Choices) == 0 {
		return "", &APICallError{Provider: ProviderOpenAI, Message: "no choices in response"}
	}

	return resp.Choices[0].Message.Content, nil
}

// Model returns the configured model name
func (c *OpenAIClient) Model() string {
	return c.config.model()
}

// Close is a no-op; the HTTP client holds no resources.
func (c *OpenAIClient) Close() error {
	return nil
}
