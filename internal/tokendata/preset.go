package tokendata

import (
	"context"

	"tokenbrain/internal/domain"
)

// Preset addresses with fixed facts, one per risk level.
const (
	PresetHighRisk   = "HighRiskToken111111111111111111111111111111"
	PresetMediumRisk = "MediumRiskToken1111111111111111111111111111"
	PresetLowRisk    = "LowRiskToken1111111111111111111111111111111"
)

type preset struct {
	age       float64
	liquidity float64
	top10     float64
}

var presets = map[string]preset{
	PresetHighRisk:   {age: 2, liquidity: 5_000, top10: 85},
	PresetMediumRisk: {age: 15, liquidity: 50_000, top10: 45},
	PresetLowRisk:    {age: 180, liquidity: 500_000, top10: 25},
}

// PresetProvider answers the preset addresses with fixed facts and
// delegates everything else to the wrapped provider.
type PresetProvider struct {
	next Provider
}

// NewPresetProvider wraps next.
func NewPresetProvider(next Provider) *PresetProvider {
	return &PresetProvider{next: next}
}

// Name returns the wrapped provider's name.
func (p *PresetProvider) Name() string { return p.next.Name() }

// Fetch returns preset facts or delegates.
func (p *PresetProvider) Fetch(ctx context.Context, address string) (domain.TokenFacts, error) {
	ps, ok := presets[address]
	if !ok {
		return p.next.Fetch(ctx, address)
	}

	return domain.TokenFacts{
		Address:                address,
		Name:                   ptr("TestToken"),
		Symbol:                 ptr("TEST"),
		LiquidityUSD:           ptr(ps.liquidity),
		AgeDays:                ptr(ps.age),
		Top10HolderPct:         ptr(ps.top10),
		MintAuthorityPresent:   ptr(false),
		FreezeAuthorityPresent: ptr(false),
	}, nil
}

var _ Provider = (*PresetProvider)(nil)
