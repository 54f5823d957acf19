// Package explain turns a risk verdict into a short human explanation,
// using an LLM when it answers in time and a fixed template otherwise.
package explain

import (
	"context"

	"tokenbrain/internal/domain"
)

// Prompt is everything an LLM provider needs for one explanation.
// System and User are the rendered messages; the structured fields let
// providers that do not call a model (mock) answer consistently.
type Prompt struct {
	System  string
	User    string
	Address string
	Name    *string
	Level   domain.RiskLevel
	Factors []string
}

// LLMProvider generates raw explanation text for a prompt.
type LLMProvider interface {
	// Name identifies the provider in logs.
	Name() string

	// Generate returns the model's text. Implementations must honor ctx.
	Generate(ctx context.Context, p Prompt) (string, error)
}
