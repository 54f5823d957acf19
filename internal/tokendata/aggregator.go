package tokendata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"tokenbrain/internal/domain"
	"tokenbrain/internal/observability"
)

// DefaultProviderTimeout bounds a single provider call.
const DefaultProviderTimeout = 5 * time.Second

// AggregatorOptions configures the aggregator.
type AggregatorOptions struct {
	Providers []Provider     // merged in this order
	Timeout   time.Duration  // per provider; DefaultProviderTimeout when zero
	Logger    zerolog.Logger // zero value disables logging
}

// Aggregator fans a request out to every provider and merges the results.
type Aggregator struct {
	providers []Provider
	timeout   time.Duration
	log       zerolog.Logger
}

// NewAggregator creates an aggregator.
func NewAggregator(opts AggregatorOptions) *Aggregator {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultProviderTimeout
	}
	return &Aggregator{
		providers: opts.Providers,
		timeout:   opts.Timeout,
		log:       observability.Component(opts.Logger, "aggregator"),
	}
}

// Providers returns the provider names in merge order.
func (a *Aggregator) Providers() []string {
	names := make([]string, len(a.providers))
	for i, p := range a.providers {
		names[i] = p.Name()
	}
	return names
}

type providerResult struct {
	facts domain.TokenFacts
	err   error
}

// Fetch queries all providers concurrently, each under its own timeout.
// A failing provider contributes nothing. ErrDataUnavailable is returned
// only when no provider yielded a usable fact.
func (a *Aggregator) Fetch(ctx context.Context, address string) (domain.TokenFacts, error) {
	results := make([]providerResult, len(a.providers))

	var g errgroup.Group
	for i, p := range a.providers {
		g.Go(func() error {
			results[i] = a.fetchOne(ctx, p, address)
			return nil
		})
	}
	_ = g.Wait()

	facts := domain.TokenFacts{Address: address}
	var lastErr error
	for i, r := range results {
		if r.err != nil {
			lastErr = r.err
			continue
		}
		facts.Merge(r.facts, a.providers[i].Name())
	}

	if !facts.HasAnyFact() {
		if lastErr == nil {
			return facts, fmt.Errorf("%w: no provider returned facts for %s", domain.ErrDataUnavailable, address)
		}
		return facts, fmt.Errorf("%w: %w", domain.ErrDataUnavailable, lastErr)
	}

	a.log.Debug().
		Str("address", address).
		Strs("sources", facts.Sources).
		Msg("token facts aggregated")

	return facts, nil
}

func (a *Aggregator) fetchOne(ctx context.Context, p Provider, address string) providerResult {
	pctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	done := make(chan providerResult, 1)
	go func() {
		facts, err := p.Fetch(pctx, address)
		done <- providerResult{facts: facts, err: err}
	}()

	// A provider that ignores its context is abandoned at the deadline.
	var r providerResult
	select {
	case r = <-done:
	case <-pctx.Done():
		r.err = pctx.Err()
	}
	facts, err := r.facts, r.err
	elapsed := time.Since(start)

	status := "ok"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		status = "timeout"
	case err != nil:
		status = "error"
	case !facts.HasAnyFact():
		status = "empty"
	}
	observability.RecordProviderCall(p.Name(), status, elapsed)

	if err != nil {
		err = domain.NewProviderError(p.Name(), err)
		a.log.Warn().
			Err(err).
			Str("provider", p.Name()).
			Str("address", address).
			Dur("elapsed", elapsed).
			Msg("provider failed")
		return providerResult{err: err}
	}

	return providerResult{facts: facts}
}
