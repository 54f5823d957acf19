package explain

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// OpenRouter defaults.
const (
	OpenRouterBaseURL  = "https://openrouter.ai/api/v1"
	DefaultModel       = "anthropic/claude-3.5-sonnet"
	DefaultTemperature = 0.2
	DefaultMaxTokens   = 500
)

// OpenRouterOptions configures OpenRouterLLM.
type OpenRouterOptions struct {
	APIKey     string
	Model      string       // DefaultModel when empty
	BaseURL    string       // OpenRouterBaseURL when empty
	HTTPClient *http.Client // optional
}

// OpenRouterLLM calls an OpenAI compatible chat completions endpoint.
type OpenRouterLLM struct {
	client *openai.Client
	model  string
}

// NewOpenRouterLLM creates an OpenRouter provider.
func NewOpenRouterLLM(opts OpenRouterOptions) *OpenRouterLLM {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.BaseURL == "" {
		opts.BaseURL = OpenRouterBaseURL
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	cfg.BaseURL = opts.BaseURL
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}

	return &OpenRouterLLM{
		client: openai.NewClientWithConfig(cfg),
		model:  opts.Model,
	}
}

// Name returns "openrouter".
func (o *OpenRouterLLM) Name() string { return "openrouter" }

// Generate sends the system and user messages and returns the first choice.
func (o *OpenRouterLLM) Generate(ctx context.Context, p Prompt) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.System},
			{Role: openai.ChatMessageRoleUser, Content: p.User},
		},
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openrouter chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("openrouter returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

var _ LLMProvider = (*OpenRouterLLM)(nil)
