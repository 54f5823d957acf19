package explain

import (
	"context"
	"fmt"
)

// Provider names accepted by NewLLMProvider.
const (
	ProviderMock       = "mock"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

// NewLLMProvider builds the named provider. An empty model selects the
// provider's default.
func NewLLMProvider(ctx context.Context, name, apiKey, model string) (LLMProvider, error) {
	switch name {
	case ProviderMock:
		return NewMockLLM(), nil
	case ProviderOpenRouter:
		if apiKey == "" {
			return nil, fmt.Errorf("%s: api key is required", name)
		}
		return NewOpenRouterLLM(OpenRouterOptions{APIKey: apiKey, Model: model}), nil
	case ProviderGemini:
		if apiKey == "" {
			return nil, fmt.Errorf("%s: api key is required", name)
		}
		g, err := NewGeminiLLM(ctx, apiKey, model)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", name)
	}
}
