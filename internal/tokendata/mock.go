package tokendata

import (
	"context"
	"crypto/md5"
	"encoding/binary"
	"math"
	"math/rand"

	"github.com/shopspring/decimal"

	"tokenbrain/internal/domain"
)

type mockToken struct {
	name   string
	symbol string
}

var mockTokens = []mockToken{
	{"Bonk", "BONK"},
	{"Dogwifhat", "WIF"},
	{"Jupiter", "JUP"},
	{"Raydium", "RAY"},
	{"Marinade", "MNDE"},
	{"Orca", "ORCA"},
	{"Pyth", "PYTH"},
	{"Jito", "JTO"},
	{"Tensor", "TNSR"},
	{"Helium", "HNT"},
}

// MockProvider generates realistic facts without network calls.
// The same address always yields the same facts.
type MockProvider struct{}

// NewMockProvider creates a mock provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Name returns "mock".
func (p *MockProvider) Name() string { return "mock" }

// Fetch derives facts from an MD5 seed of the address.
func (p *MockProvider) Fetch(ctx context.Context, address string) (domain.TokenFacts, error) {
	if err := ctx.Err(); err != nil {
		return domain.TokenFacts{}, err
	}

	sum := md5.Sum([]byte(address))
	rng := rand.New(rand.NewSource(int64(binary.BigEndian.Uint64(sum[:8]))))

	tok := mockTokens[rng.Intn(len(mockTokens))]
	age := float64(1 + rng.Intn(365))
	liquidity := round2(1_000 + rng.Float64()*499_000)
	top10 := round2(10 + rng.Float64()*85)
	top1 := round2(top10 * (0.15 + rng.Float64()*0.45))
	mintAuth := rng.Float64() < 0.10
	freezeAuth := rng.Float64() < 0.05
	decimals := 6
	if rng.Intn(2) == 1 {
		decimals = 9
	}
	supply := decimal.NewFromInt(1_000_000 + rng.Int63n(999_000_000))

	return domain.TokenFacts{
		Address:                address,
		Name:                   ptr(tok.name),
		Symbol:                 ptr(tok.symbol),
		LiquidityUSD:           ptr(liquidity),
		AgeDays:                ptr(age),
		Top10HolderPct:         ptr(top10),
		Top1HolderPct:          ptr(top1),
		MintAuthorityPresent:   ptr(mintAuth),
		FreezeAuthorityPresent: ptr(freezeAuth),
		Decimals:               ptr(decimals),
		Supply:                 ptr(supply),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

var _ Provider = (*MockProvider)(nil)
