// Package orchestrator runs one token analysis end to end.
// Flow: fetch facts → evaluate risk → recommendation → explanation
package orchestrator

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"tokenbrain/internal/domain"
	"tokenbrain/internal/observability"
)

// FactsFetcher gathers token facts (tokendata.Aggregator).
type FactsFetcher interface {
	Fetch(ctx context.Context, address string) (domain.TokenFacts, error)
}

// RiskEvaluator classifies facts (risk.Service).
type RiskEvaluator interface {
	Evaluate(facts domain.TokenFacts) domain.RiskVerdict
}

// Explainer produces the explanation (explain.Service). It never fails.
type Explainer interface {
	Explain(ctx context.Context, facts domain.TokenFacts, verdict domain.RiskVerdict) domain.Explanation
}

// Orchestrator coordinates the analysis pipeline.
type Orchestrator struct {
	fetcher   FactsFetcher
	risk      RiskEvaluator
	explainer Explainer
	now       func() time.Time
	log       zerolog.Logger
}

// Options for creating Orchestrator.
type Options struct {
	// Required services
	Fetcher   FactsFetcher
	Risk      RiskEvaluator
	Explainer Explainer

	// Optional
	Now    func() time.Time // time.Now when nil
	Logger zerolog.Logger
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Orchestrator{
		fetcher:   opts.Fetcher,
		risk:      opts.Risk,
		explainer: opts.Explainer,
		now:       opts.Now,
		log:       observability.Component(opts.Logger, "orchestrator"),
	}
}

// Analyze runs the pipeline for a validated address.
// The only error it returns matches domain.ErrAnalysisFailed; when no facts
// could be fetched it also matches domain.ErrDataUnavailable.
// Risk and explanation are skipped on fetch failure. There are no retries.
func (o *Orchestrator) Analyze(ctx context.Context, address string) (domain.AnalysisResult, error) {
	start := time.Now()

	// Phase 1: facts
	facts, err := o.fetcher.Fetch(ctx, address)
	if err != nil {
		err = domain.NewAnalysisFailed(err)
		observability.RecordAnalysis("", err, time.Since(start))
		o.log.Warn().
			Err(err).
			Str("address", address).
			Dur("elapsed", time.Since(start)).
			Msg("analysis failed")
		return domain.AnalysisResult{}, err
	}

	// Phase 2: risk
	verdict := o.risk.Evaluate(facts)

	// Phase 3: recommendation
	recommendation := domain.RecommendationFor(verdict.Level)

	// Phase 4: explanation
	explanation := o.explainer.Explain(ctx, facts, verdict)

	result := domain.AnalysisResult{
		Address:        address,
		Facts:          facts,
		Verdict:        verdict,
		Recommendation: recommendation,
		Explanation:    explanation,
		AnalyzedAt:     o.now().UTC(),
	}

	elapsed := time.Since(start)
	observability.RecordAnalysis(verdict.Level.String(), nil, elapsed)
	o.log.Info().
		Str("address", address).
		Str("risk", verdict.Level.String()).
		Str("recommendation", string(recommendation)).
		Str("explanation_source", string(explanation.Source)).
		Strs("sources", facts.Sources).
		Int("reasons", len(verdict.Reasons)).
		Dur("elapsed", elapsed).
		Msg("analysis complete")

	return result, nil
}
