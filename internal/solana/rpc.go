package solana

import "context"

// RPCClient defines the standard Solana RPC methods used for token inspection.
type RPCClient interface {
	// GetAccountInfo retrieves an account by public key. Nil when not found.
	GetAccountInfo(ctx context.Context, pubkey string) (*AccountInfo, error)

	// GetTokenLargestAccounts returns the largest token accounts of a mint.
	GetTokenLargestAccounts(ctx context.Context, mint string) ([]TokenAccountBalance, error)

	// GetTokenSupply returns the total supply of a mint.
	GetTokenSupply(ctx context.Context, mint string) (*TokenAmount, error)

	// GetSignaturesForAddress retrieves signatures for an address with pagination.
	GetSignaturesForAddress(ctx context.Context, address string, opts *SignaturesOpts) ([]SignatureInfo, error)
}

// DASClient defines the Digital Asset Standard methods served by Helius.
type DASClient interface {
	// GetAsset fetches an indexed asset. Nil when the indexer does not know it.
	GetAsset(ctx context.Context, id string) (*Asset, error)

	// GetTokenLargestAccounts returns the largest token accounts of a mint.
	GetTokenLargestAccounts(ctx context.Context, mint string) ([]TokenAccountBalance, error)
}
