package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenbrain/internal/config"
	"tokenbrain/internal/server"
	"tokenbrain/internal/storage/memory"
	"tokenbrain/internal/tokendata"
)

func mockConfig() *config.Config {
	return &config.Config{
		Environment:            config.EnvDevelopment,
		UseMockServices:        true,
		LogLevel:               "error",
		LLMTimeout:             time.Second,
		ProviderTimeout:        time.Second,
		UserRateLimitPerMinute: 10,
	}
}

func TestBuildProviders_Mock(t *testing.T) {
	providers, err := buildProviders(mockConfig(), zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, providers, 1)
	assert.Equal(t, "mock", providers[0].Name())
}

func TestBuildProviders_Live(t *testing.T) {
	cfg := mockConfig()
	cfg.UseMockServices = false
	cfg.HeliusAPIKey = "key"
	cfg.SolanaRPCEndpoint = config.DefaultRPCEndpoint
	cfg.TokenProviders = []string{config.ProviderRPC, config.ProviderHelius}

	providers, err := buildProviders(cfg, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, providers, 2)
	assert.Equal(t, "rpc", providers[0].Name())
	assert.Equal(t, "helius", providers[1].Name())

	cfg.TokenProviders = []string{"birdeye"}
	_, err = buildProviders(cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestBuildPipeline_MockAnalyzes(t *testing.T) {
	p, err := buildPipeline(context.Background(), mockConfig(), zerolog.Nop())
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, []string{"mock"}, p.providers)
	assert.Equal(t, "mock", p.llm)

	result, err := p.analyzer.Analyze(context.Background(), tokendata.PresetLowRisk)
	require.NoError(t, err)
	assert.Equal(t, "low", result.Verdict.Level.String())
}

func TestBuildPipeline_BadThresholdsFile(t *testing.T) {
	cfg := mockConfig()
	cfg.RiskThresholdsFile = "does-not-exist.yaml"

	_, err := buildPipeline(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestOpenHistory_MemoryWithoutDSN(t *testing.T) {
	store, closeFn, err := openHistory(context.Background(), mockConfig(), zerolog.Nop())
	require.NoError(t, err)
	defer closeFn()

	_, ok := store.(*memory.AnalysisStore)
	assert.True(t, ok, "expected memory store, got %T", store)
}

func TestAnalyzeCommand_PrintsJSON(t *testing.T) {
	t.Setenv("USE_MOCK_SERVICES", "true")
	t.Setenv("ENVIRONMENT", "production")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"analyze", tokendata.PresetMediumRisk, "--mock", "--log-level", "error"})

	require.NoError(t, root.Execute())

	var resp server.AnalysisResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, tokendata.PresetMediumRisk, resp.Address)
	assert.Equal(t, "medium", resp.Risk)
	assert.Equal(t, "caution", resp.Recommendation)
}

func TestAnalyzeCommand_RejectsInvalidAddress(t *testing.T) {
	t.Setenv("USE_MOCK_SERVICES", "true")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"analyze", "0xdeadbeef", "--mock"})

	assert.Error(t, root.Execute())
}
