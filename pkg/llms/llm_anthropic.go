package llms

import (
	"context"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"

	"github.com/recallio/recall/pkg/models"
)

var _ models.ChatClient = &AnthropicChatClient{}

type AnthropicChatClient struct {
	client *anthropic.LLM
}

func NewAnthropicChatClient(apiKey string) (*AnthropicChatClient, error) {
	if apiKey == "" {
		return nil, models.NewConfigurationError("anthropic API key is not set", nil)
	}

	client, err := anthropic.New(anthropic.WithToken(apiKey))
	if err != nil {
		return nil, models.NewConfigurationError("failed to configure anthropic client", err)
	}

	return &AnthropicChatClient{client: client}, nil
}

func (c *AnthropicChatClient) Chat(
	ctx context.Context,
	messages []models.ChatMessage,
	model string,
	temperature float64,
) (string, error) {
	if c.client == nil {
		return "", models.NewConfigurationError("anthropic client is not initialized", nil)
	}

	thisCtx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	completion, err := c.client.Call(
		thisCtx,
		flattenToPrompt(messages),
		llms.WithModel(model),
		llms.WithTemperature(temperature),
	)
	if err != nil {
		return "", models.NewUnavailableError("anthropic chat", err)
	}

	return completion, nil
}

// flattenToPrompt renders a message list into the Human:/Assistant: turn
// format the completion-style anthropic client expects.
func flattenToPrompt(messages []models.ChatMessage) string {
	var sb strings.Builder
	for _, m := range messages {
		switch m.Role {
		case models.RoleAssistant:
			sb.WriteString("\n\nAssistant: ")
		default:
			sb.WriteString("\n\nHuman: ")
		}
		sb.WriteString(m.Content)
	}
	sb.WriteString("\n\nAssistant:")
	return strings.TrimPrefix(sb.String(), "\n\n")
}
