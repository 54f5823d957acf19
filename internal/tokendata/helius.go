package tokendata

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"tokenbrain/internal/domain"
	"tokenbrain/internal/observability"
	"tokenbrain/internal/solana"
)

// HeliusProvider reads token metadata, authorities and holder concentration
// from the Helius DAS API. Age and liquidity are not available there.
type HeliusProvider struct {
	client solana.DASClient
	log    zerolog.Logger
}

// NewHeliusProvider creates a Helius provider over a DAS client.
func NewHeliusProvider(client solana.DASClient, logger zerolog.Logger) *HeliusProvider {
	return &HeliusProvider{
		client: client,
		log:    observability.Component(logger, "helius_provider"),
	}
}

// Name returns "helius".
func (p *HeliusProvider) Name() string { return "helius" }

// Fetch calls getAsset and getTokenLargestAccounts in parallel.
// It fails only when both calls fail.
func (p *HeliusProvider) Fetch(ctx context.Context, address string) (domain.TokenFacts, error) {
	var (
		asset     *solana.Asset
		accounts  []solana.TokenAccountBalance
		assetErr  error
		holderErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		asset, assetErr = p.client.GetAsset(gctx, address)
		return nil
	})
	g.Go(func() error {
		accounts, holderErr = p.client.GetTokenLargestAccounts(gctx, address)
		return nil
	})
	_ = g.Wait()

	if assetErr != nil {
		p.log.Warn().Err(assetErr).Str("address", address).Msg("getAsset failed")
	}
	if holderErr != nil {
		p.log.Warn().Err(holderErr).Str("address", address).Msg("getTokenLargestAccounts failed")
	}
	if assetErr != nil && holderErr != nil {
		return domain.TokenFacts{}, fmt.Errorf("both helius calls failed: %w", errors.Join(assetErr, holderErr))
	}

	facts := domain.TokenFacts{Address: address}
	var uiSupply decimal.Decimal

	if asset != nil {
		facts.Name = strPtr(asset.Content.Metadata.Name)
		facts.Symbol = strPtr(asset.Content.Metadata.Symbol)
		facts.MetadataMutable = asset.Mutable

		if ti := asset.TokenInfo; ti != nil {
			if facts.Symbol == nil {
				facts.Symbol = strPtr(ti.Symbol)
			}
			facts.MintAuthorityPresent = ptr(ti.MintAuthority != nil)
			facts.FreezeAuthorityPresent = ptr(ti.FreezeAuthority != nil)

			if ti.Decimals != nil {
				facts.Decimals = ptr(*ti.Decimals)
			}
			if raw, err := decimal.NewFromString(ti.Supply.String()); err == nil && ti.Decimals != nil {
				uiSupply = raw.Shift(-int32(*ti.Decimals))
				facts.Supply = ptr(uiSupply)
			}
		}
	}

	if holderErr == nil && len(accounts) > 0 {
		facts.HolderAccounts = ptr(len(accounts))
		c := HolderConcentration(accounts, uiSupply)
		facts.Top1HolderPct = c.Top1
		facts.Top5HolderPct = c.Top5
		facts.Top10HolderPct = c.Top10
	}

	return facts, nil
}

var _ Provider = (*HeliusProvider)(nil)
