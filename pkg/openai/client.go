package openai

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/instaprompt/backend/pkg/config"
	"github.com/instaprompt/backend/pkg/logger"
)

var errAPIKeyRequired = errors.New("openai api key is required")

// ChatCompleter is the surface consumed by the classifier and the
// caption generator; tests substitute a stub.
type ChatCompleter interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Client wraps the OpenAI chat-completions API with a fixed model.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient initializes the OpenAI client once at process start.
func NewClient(ctx context.Context, cfg config.OpenAIConfig, logg *logger.Logger) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = openai.GPT4
	}

	if logg != nil {
		logg.Info(ctx, "openai client initialized")
	}

	return &Client{
		api:   openai.NewClient(apiKey),
		model: model,
	}, nil
}

// Complete issues a single chat completion and returns the trimmed
// content of the first choice. The system message is omitted when empty.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if c == nil || c.api == nil {
		return "", errors.New("openai client not initialized")
	}

	messages := []openai.ChatCompletionMessage{}
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: user,
	})

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
