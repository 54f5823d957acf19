package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"tokenbrain/internal/config"
	"tokenbrain/internal/explain"
	"tokenbrain/internal/orchestrator"
	"tokenbrain/internal/risk"
	"tokenbrain/internal/solana"
	"tokenbrain/internal/storage"
	"tokenbrain/internal/storage/memory"
	"tokenbrain/internal/storage/migrations"
	pgstore "tokenbrain/internal/storage/postgres"
	"tokenbrain/internal/tokendata"
)

// Outgoing request rates per RPC endpoint.
const (
	heliusRPS    = 10
	publicRPCRPS = 4
)

// pipeline is the assembled analysis stack.
type pipeline struct {
	analyzer  *orchestrator.Orchestrator
	providers []string
	llm       string
	closers   []func()
}

func (p *pipeline) Close() {
	for i := len(p.closers) - 1; i >= 0; i-- {
		p.closers[i]()
	}
}

// buildPipeline wires providers, risk rules and the explainer from cfg.
func buildPipeline(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*pipeline, error) {
	p := &pipeline{}

	providers, err := buildProviders(cfg, log)
	if err != nil {
		return nil, err
	}

	thresholds := risk.DefaultThresholds()
	if cfg.RiskThresholdsFile != "" {
		thresholds, err = risk.LoadThresholds(cfg.RiskThresholdsFile)
		if err != nil {
			return nil, err
		}
		log.Info().Str("file", cfg.RiskThresholdsFile).Msg("loaded risk thresholds")
	}

	llmName := explain.ProviderMock
	if !cfg.UseMockServices {
		llmName = cfg.LLMProvider
	}
	llm, err := explain.NewLLMProvider(ctx, llmName, cfg.LLMAPIKey(), cfg.LLMModel)
	if err != nil {
		return nil, fmt.Errorf("create llm provider: %w", err)
	}
	if c, ok := llm.(io.Closer); ok {
		p.closers = append(p.closers, func() { _ = c.Close() })
	}

	aggregator := tokendata.NewAggregator(tokendata.AggregatorOptions{
		Providers: providers,
		Timeout:   cfg.ProviderTimeout,
		Logger:    log,
	})

	p.analyzer = orchestrator.New(orchestrator.Options{
		Fetcher: aggregator,
		Risk:    risk.NewService(thresholds),
		Explainer: explain.NewService(explain.Options{
			LLM:     llm,
			Timeout: cfg.LLMTimeout,
			Logger:  log,
		}),
		Logger: log,
	})
	p.providers = aggregator.Providers()
	p.llm = llm.Name()

	log.Info().
		Bool("mock", cfg.UseMockServices).
		Strs("providers", p.providers).
		Str("llm", p.llm).
		Msg("analysis pipeline ready")

	return p, nil
}

// buildProviders returns the token data providers in merge order.
func buildProviders(cfg *config.Config, log zerolog.Logger) ([]tokendata.Provider, error) {
	if cfg.UseMockServices {
		return []tokendata.Provider{tokendata.NewPresetProvider(tokendata.NewMockProvider())}, nil
	}

	var providers []tokendata.Provider
	for _, name := range cfg.TokenProviders {
		switch name {
		case config.ProviderHelius:
			client := solana.NewHTTPClient(solana.HeliusEndpoint(cfg.HeliusAPIKey),
				solana.WithTimeout(cfg.ProviderTimeout),
				solana.WithRateLimit(heliusRPS, heliusRPS),
			)
			providers = append(providers, tokendata.NewHeliusProvider(client, log))
		case config.ProviderRPC:
			client := solana.NewHTTPClient(cfg.SolanaRPCEndpoint,
				solana.WithTimeout(cfg.ProviderTimeout),
				solana.WithRateLimit(publicRPCRPS, publicRPCRPS),
			)
			providers = append(providers, tokendata.NewRPCProvider(tokendata.RPCProviderOptions{
				Client: client,
				Logger: log,
			}))
		default:
			return nil, fmt.Errorf("unknown token provider: %s", name)
		}
	}
	return providers, nil
}

// openHistory returns the Postgres history store when POSTGRES_DSN is set,
// the memory store otherwise.
func openHistory(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storage.AnalysisStore, func(), error) {
	if cfg.PostgresDSN == "" {
		log.Info().Msg("using in-memory analysis history")
		return memory.NewAnalysisStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, err
	}

	applied, err := migrations.RunPostgresMigrations(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	log.Info().Strs("applied", applied).Msg("postgres migrations done")

	return pgstore.NewAnalysisStore(pool), pool.Close, nil
}

func modeName(cfg *config.Config) string {
	if cfg.UseMockServices {
		return "mock"
	}
	return "live"
}
