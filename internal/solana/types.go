package solana

import "encoding/json"

// AccountInfo from getAccountInfo.
type AccountInfo struct {
	Lamports   uint64
	Owner      string
	Data       string // base64 encoded
	Executable bool
	RentEpoch  uint64
}

// SignatureInfo from getSignaturesForAddress.
type SignatureInfo struct {
	Signature string
	Slot      int64
	BlockTime *int64
	Err       interface{}
}

// SignaturesOpts defines optional pagination parameters for getSignaturesForAddress.
type SignaturesOpts struct {
	Before string // Start searching backwards from this signature
	Until  string // Search until this signature
	Limit  int    // Maximum number of signatures to return
}

// TokenAmount is the RPC representation of a token quantity.
type TokenAmount struct {
	Amount         string   `json:"amount"` // raw integer amount
	Decimals       int      `json:"decimals"`
	UIAmount       *float64 `json:"uiAmount"`
	UIAmountString string   `json:"uiAmountString"`
}

// TokenAccountBalance is one entry of getTokenLargestAccounts.
type TokenAccountBalance struct {
	Address string `json:"address"`
	TokenAmount
}

// Asset is the subset of a DAS getAsset response used for token inspection.
type Asset struct {
	ID        string          `json:"id"`
	Interface string          `json:"interface"`
	Content   AssetContent    `json:"content"`
	TokenInfo *AssetTokenInfo `json:"token_info"`
	Mutable   *bool           `json:"mutable"`
}

// AssetContent holds on-chain metadata.
type AssetContent struct {
	Metadata AssetMetadata `json:"metadata"`
}

// AssetMetadata holds name and symbol.
type AssetMetadata struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// AssetTokenInfo holds fungible token fields.
// A non-nil authority means the authority is set.
type AssetTokenInfo struct {
	Symbol          string      `json:"symbol"`
	Supply          json.Number `json:"supply"`
	Decimals        *int        `json:"decimals"`
	TokenProgram    string      `json:"token_program"`
	MintAuthority   *string     `json:"mint_authority"`
	FreezeAuthority *string     `json:"freeze_authority"`
}
