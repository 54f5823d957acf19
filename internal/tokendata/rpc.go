package tokendata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"tokenbrain/internal/domain"
	"tokenbrain/internal/observability"
	"tokenbrain/internal/solana"
)

// Defaults for the signature walk used to find the mint's age.
const (
	DefaultSignaturePageSize = 1000
	DefaultMaxSignaturePages = 5
)

// ErrMintNotFound is returned when the address has no mint account.
var ErrMintNotFound = errors.New("mint account not found")

// RPCProviderOptions configures RPCProvider.
type RPCProviderOptions struct {
	Client   solana.RPCClient
	PageSize int // signatures per page
	MaxPages int // age is unknown when the history is longer than this
	Now      func() time.Time
	Logger   zerolog.Logger
}

// RPCProvider reads facts from plain Solana RPC: the mint account,
// the Metaplex metadata account, the largest holders and the signature history.
type RPCProvider struct {
	client   solana.RPCClient
	pageSize int
	maxPages int
	now      func() time.Time
	log      zerolog.Logger
}

// NewRPCProvider creates an RPC provider.
func NewRPCProvider(opts RPCProviderOptions) *RPCProvider {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultSignaturePageSize
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxSignaturePages
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &RPCProvider{
		client:   opts.Client,
		pageSize: opts.PageSize,
		maxPages: opts.MaxPages,
		now:      opts.Now,
		log:      observability.Component(opts.Logger, "rpc_provider"),
	}
}

// Name returns "rpc".
func (p *RPCProvider) Name() string { return "rpc" }

// Fetch runs the four lookups in parallel. Each lookup fills its own fields;
// failures leave them unknown. The call fails only when every lookup failed.
func (p *RPCProvider) Fetch(ctx context.Context, address string) (domain.TokenFacts, error) {
	var (
		mint     *solana.Mint
		meta     *solana.Metadata
		accounts []solana.TokenAccountBalance
		age      *float64
		errs     [4]error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		mint, errs[0] = p.fetchMint(gctx, address)
		return nil
	})
	g.Go(func() error {
		meta, errs[1] = p.fetchMetadata(gctx, address)
		return nil
	})
	g.Go(func() error {
		accounts, errs[2] = p.client.GetTokenLargestAccounts(gctx, address)
		return nil
	})
	g.Go(func() error {
		age, errs[3] = p.fetchAge(gctx, address)
		return nil
	})
	_ = g.Wait()

	failed := 0
	for i, err := range errs {
		if err != nil {
			failed++
			p.log.Debug().Err(err).Int("lookup", i).Str("address", address).Msg("rpc lookup failed")
		}
	}
	if failed == len(errs) {
		return domain.TokenFacts{}, fmt.Errorf("all rpc lookups failed: %w", errors.Join(errs[:]...))
	}

	facts := domain.TokenFacts{Address: address, AgeDays: age}
	var uiSupply decimal.Decimal

	if mint != nil {
		facts.MintAuthorityPresent = ptr(mint.MintAuthority != nil)
		facts.FreezeAuthorityPresent = ptr(mint.FreezeAuthority != nil)
		facts.Decimals = ptr(int(mint.Decimals))
		uiSupply = mint.UISupply()
		facts.Supply = ptr(uiSupply)
	}

	if meta != nil {
		facts.Name = strPtr(meta.Name)
		facts.Symbol = strPtr(meta.Symbol)
		facts.MetadataMutable = meta.IsMutable
	}

	if len(accounts) > 0 {
		facts.HolderAccounts = ptr(len(accounts))
		c := HolderConcentration(accounts, uiSupply)
		facts.Top1HolderPct = c.Top1
		facts.Top5HolderPct = c.Top5
		facts.Top10HolderPct = c.Top10
	}

	return facts, nil
}

func (p *RPCProvider) fetchMint(ctx context.Context, address string) (*solana.Mint, error) {
	info, err := p.client.GetAccountInfo(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("get mint account: %w", err)
	}
	if info == nil {
		return nil, ErrMintNotFound
	}

	data, err := solana.DecodeAccountData(info)
	if err != nil {
		return nil, err
	}
	return solana.ParseMint(data)
}

func (p *RPCProvider) fetchMetadata(ctx context.Context, address string) (*solana.Metadata, error) {
	pda, err := solana.DeriveMetadataPDA(address)
	if err != nil {
		return nil, fmt.Errorf("derive metadata address: %w", err)
	}

	info, err := p.client.GetAccountInfo(ctx, pda)
	if err != nil {
		return nil, fmt.Errorf("get metadata account: %w", err)
	}
	if info == nil {
		return nil, errors.New("metadata account not found")
	}

	data, err := solana.DecodeAccountData(info)
	if err != nil {
		return nil, err
	}
	return solana.ParseMetadata(data)
}

// fetchAge walks the signature history backwards to the mint's first
// transaction. Age is nil when the walk does not reach the beginning.
func (p *RPCProvider) fetchAge(ctx context.Context, address string) (*float64, error) {
	var (
		before string
		oldest *int64
	)

	for page := 0; page < p.maxPages; page++ {
		sigs, err := p.client.GetSignaturesForAddress(ctx, address, &solana.SignaturesOpts{
			Before: before,
			Limit:  p.pageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("get signatures: %w", err)
		}

		for i := len(sigs) - 1; i >= 0; i-- {
			if sigs[i].BlockTime != nil {
				bt := *sigs[i].BlockTime
				if oldest == nil || bt < *oldest {
					oldest = &bt
				}
				break
			}
		}

		if len(sigs) < p.pageSize {
			if oldest == nil {
				return nil, nil
			}
			created := time.Unix(*oldest, 0)
			days := p.now().Sub(created).Hours() / 24
			return &days, nil
		}
		before = sigs[len(sigs)-1].Signature
	}

	p.log.Debug().Str("address", address).Int("pages", p.maxPages).Msg("signature history exceeds page cap, age unknown")
	return nil, nil
}

var _ Provider = (*RPCProvider)(nil)
