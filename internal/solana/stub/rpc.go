package stub

import (
	"context"
	"errors"

	"tokenbrain/internal/solana"
)

// ErrNotFound is returned when a mint has no registered answer.
var ErrNotFound = errors.New("not found")

// RPCClient implements solana.RPCClient and solana.DASClient for testing.
// Errors registered in Errs are returned for the matching method name.
type RPCClient struct {
	Accounts   map[string]*solana.AccountInfo
	Largest    map[string][]solana.TokenAccountBalance
	Supplies   map[string]*solana.TokenAmount
	Signatures map[string][]solana.SignatureInfo
	Assets     map[string]*solana.Asset
	Errs       map[string]error
}

// NewRPCClient creates a new stub RPC client.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		Accounts:   make(map[string]*solana.AccountInfo),
		Largest:    make(map[string][]solana.TokenAccountBalance),
		Supplies:   make(map[string]*solana.TokenAmount),
		Signatures: make(map[string][]solana.SignatureInfo),
		Assets:     make(map[string]*solana.Asset),
		Errs:       make(map[string]error),
	}
}

// GetAccountInfo returns the stored account or nil.
func (c *RPCClient) GetAccountInfo(ctx context.Context, pubkey string) (*solana.AccountInfo, error) {
	if err := c.fail(ctx, "getAccountInfo"); err != nil {
		return nil, err
	}
	return c.Accounts[pubkey], nil
}

// GetTokenLargestAccounts returns the stored balances.
func (c *RPCClient) GetTokenLargestAccounts(ctx context.Context, mint string) ([]solana.TokenAccountBalance, error) {
	if err := c.fail(ctx, "getTokenLargestAccounts"); err != nil {
		return nil, err
	}
	accounts, ok := c.Largest[mint]
	if !ok {
		return nil, ErrNotFound
	}
	return accounts, nil
}

// GetTokenSupply returns the stored supply.
func (c *RPCClient) GetTokenSupply(ctx context.Context, mint string) (*solana.TokenAmount, error) {
	if err := c.fail(ctx, "getTokenSupply"); err != nil {
		return nil, err
	}
	supply, ok := c.Supplies[mint]
	if !ok {
		return nil, ErrNotFound
	}
	return supply, nil
}

// GetSignaturesForAddress pages through the stored signatures (newest first).
func (c *RPCClient) GetSignaturesForAddress(ctx context.Context, address string, opts *solana.SignaturesOpts) ([]solana.SignatureInfo, error) {
	if err := c.fail(ctx, "getSignaturesForAddress"); err != nil {
		return nil, err
	}
	sigs := c.Signatures[address]

	if opts != nil && opts.Before != "" {
		for i, s := range sigs {
			if s.Signature == opts.Before {
				sigs = sigs[i+1:]
				break
			}
		}
	}

	// Apply limit if specified
	if opts != nil && opts.Limit > 0 && opts.Limit < len(sigs) {
		return sigs[:opts.Limit], nil
	}

	return sigs, nil
}

// GetAsset returns the stored asset or nil.
func (c *RPCClient) GetAsset(ctx context.Context, id string) (*solana.Asset, error) {
	if err := c.fail(ctx, "getAsset"); err != nil {
		return nil, err
	}
	return c.Assets[id], nil
}

// AddSignatures adds signatures for an address to the stub store.
func (c *RPCClient) AddSignatures(address string, sigs []solana.SignatureInfo) {
	c.Signatures[address] = sigs
}

func (c *RPCClient) fail(ctx context.Context, method string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.Errs[method]
}

var (
	_ solana.RPCClient = (*RPCClient)(nil)
	_ solana.DASClient = (*RPCClient)(nil)
)
