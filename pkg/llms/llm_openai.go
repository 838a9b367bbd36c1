package llms

import (
	"context"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"github.com/recallio/recall/pkg/models"
)

var _ models.ChatClient = &OpenAIChatClient{}

// OpenAIChatClient serves the OpenAI API and every OpenAI-compatible
// provider (DeepSeek, Together) via a custom base URL.
type OpenAIChatClient struct {
	llm      *openai.Chat
	provider string
}

// NewOpenAIChatClient builds a chat client for an OpenAI-style endpoint.
// The credential is validated here, once, at construction.
func NewOpenAIChatClient(provider, apiKey, baseURL string, retryMax int) (*OpenAIChatClient, error) {
	if apiKey == "" {
		return nil, models.NewConfigurationError(provider+" API key is not set", nil)
	}

	retryableHTTPClient := NewRetryableHTTPClient(retryMax, APITimeout)

	options := []openai.Option{
		openai.WithHTTPClient(retryableHTTPClient.StandardClient()),
		openai.WithToken(apiKey),
	}
	if baseURL != "" {
		options = append(options, openai.WithBaseURL(baseURL))
	}

	llm, err := openai.NewChat(options...)
	if err != nil {
		return nil, models.NewConfigurationError("failed to configure "+provider+" client", err)
	}

	return &OpenAIChatClient{llm: llm, provider: provider}, nil
}

func (c *OpenAIChatClient) Chat(
	ctx context.Context,
	messages []models.ChatMessage,
	model string,
	temperature float64,
) (string, error) {
	if c.llm == nil {
		return "", models.NewConfigurationError(c.provider+" client is not initialized", nil)
	}

	thisCtx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	completion, err := c.llm.Call(
		thisCtx,
		toSchemaMessages(messages),
		llms.WithModel(model),
		llms.WithTemperature(temperature),
	)
	if err != nil {
		return "", models.NewUnavailableError(c.provider+" chat", err)
	}

	return completion.GetContent(), nil
}

func toSchemaMessages(messages []models.ChatMessage) []schema.ChatMessage {
	out := make([]schema.ChatMessage, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case models.RoleSystem:
			out = append(out, schema.SystemChatMessage{Content: m.Content})
		case models.RoleAssistant:
			out = append(out, schema.AIChatMessage{Content: m.Content})
		default:
			out = append(out, schema.HumanChatMessage{Content: m.Content})
		}
	}
	return out
}
