package insights

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/biobalance/admin/config"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com"
	defaultOpenAIModel   = "gpt-4o-mini"
	openAITimeout        = 30 * time.Second
)

// OpenAIClient completes prompts through the chat-completions API.
type OpenAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAIClient builds a client for cfg. opts are applied after the
// configured ones.
func NewOpenAIClient(cfg config.OpenAIConfig, opts ...option.RequestOption) (*OpenAIClient, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, errors.New("missing OpenAI API key")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultOpenAIModel
	}

	base := []option.RequestOption{
		option.WithAPIKey(key),
		option.WithBaseURL(apiBaseURL(cfg.BaseURL)),
		option.WithHTTPClient(&http.Client{Timeout: openAITimeout}),
	}
	return &OpenAIClient{
		client: openai.NewClient(append(base, opts...)...),
		model:  model,
	}, nil
}

// apiBaseURL accepts the host with or without the /v1 suffix.
func apiBaseURL(raw string) string {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	if base == "" {
		base = defaultOpenAIBaseURL
	}
	if !strings.HasSuffix(base, "/v1") {
		base += "/v1"
	}
	return base + "/"
}

// Complete sends one chat completion and returns the first choice's content.
func (c *OpenAIClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
		Temperature: openai.Float(0.4),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("OpenAI request failed with status %d: %w", apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("execute OpenAI request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("OpenAI response has no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
