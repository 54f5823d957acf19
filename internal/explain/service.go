package explain

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"tokenbrain/internal/domain"
	"tokenbrain/internal/observability"
)

// DefaultTimeout bounds one LLM call.
const DefaultTimeout = 10 * time.Second

// Options configures the explain service.
type Options struct {
	LLM     LLMProvider // nil always falls back
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Service produces explanations. It never returns an error.
type Service struct {
	llm     LLMProvider
	timeout time.Duration
	log     zerolog.Logger
}

// NewService creates an explain service.
func NewService(opts Options) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Service{
		llm:     opts.LLM,
		timeout: opts.Timeout,
		log:     observability.Component(opts.Logger, "explain"),
	}
}

var errNoProvider = errors.New("no llm provider configured")

type generation struct {
	text string
	err  error
}

// Explain asks the LLM for an explanation under the configured timeout.
// Any failure yields Fallback.
func (s *Service) Explain(ctx context.Context, facts domain.TokenFacts, verdict domain.RiskVerdict) domain.Explanation {
	exp, err := s.generate(ctx, facts, verdict)
	if err != nil {
		s.log.Warn().
			Err(err).
			Str("address", facts.Address).
			Str("risk", verdict.Level.String()).
			Msg("llm explanation unavailable, using fallback")
		exp = Fallback(verdict)
	}

	observability.RecordExplanation(string(exp.Source))
	return exp
}

func (s *Service) generate(ctx context.Context, facts domain.TokenFacts, verdict domain.RiskVerdict) (domain.Explanation, error) {
	if s.llm == nil {
		return domain.Explanation{}, errNoProvider
	}

	prompt := BuildPrompt(facts, verdict)

	gctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	done := make(chan generation, 1)
	go func() {
		text, err := s.llm.Generate(gctx, prompt)
		done <- generation{text: text, err: err}
	}()

	// The call is abandoned at the deadline even if the provider ignores ctx.
	var g generation
	select {
	case g = <-done:
	case <-gctx.Done():
		g.err = gctx.Err()
	}
	observability.RecordLLMLatency(time.Since(start))

	if g.err != nil {
		return domain.Explanation{}, g.err
	}

	exp, err := ParseResponse(g.text, verdict)
	if err != nil {
		return domain.Explanation{}, err
	}

	s.log.Debug().
		Str("provider", s.llm.Name()).
		Int("summary_len", len(exp.Summary)).
		Int("reasons", len(exp.Reasons)).
		Msg("llm explanation generated")

	return exp, nil
}
