package solana

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/mr-tron/base58"
	"github.com/shopspring/decimal"
)

// MintSize is the length of the SPL Token mint layout.
// Token-2022 mints carry extensions after these bytes.
const MintSize = 82

// Mint is a decoded SPL Token mint account.
type Mint struct {
	MintAuthority   *string
	Supply          uint64
	Decimals        uint8
	IsInitialized   bool
	FreezeAuthority *string
}

// UISupply returns the supply scaled by decimals.
func (m *Mint) UISupply() decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(m.Supply), -int32(m.Decimals))
}

// DecodeAccountData decodes the base64 data of an account.
func DecodeAccountData(info *AccountInfo) ([]byte, error) {
	if info == nil {
		return nil, fmt.Errorf("nil account")
	}
	data, err := base64.StdEncoding.DecodeString(info.Data)
	if err != nil {
		return nil, fmt.Errorf("decode account data: %w", err)
	}
	return data, nil
}

// ParseMint parses SPL Token mint account data.
// Layout (82 bytes):
// - mintAuthority: COption<Pubkey> (4 + 32)
// - supply: u64 at 36
// - decimals: u8 at 44
// - isInitialized: bool at 45
// - freezeAuthority: COption<Pubkey> (4 + 32) at 46
func ParseMint(data []byte) (*Mint, error) {
	if len(data) < MintSize {
		return nil, fmt.Errorf("mint data too short: %d", len(data))
	}

	m := &Mint{
		Supply:        binary.LittleEndian.Uint64(data[36:44]),
		Decimals:      data[44],
		IsInitialized: data[45] != 0,
	}

	var err error
	if m.MintAuthority, err = parseCOptionPubkey(data[0:36]); err != nil {
		return nil, fmt.Errorf("mint authority: %w", err)
	}
	if m.FreezeAuthority, err = parseCOptionPubkey(data[46:82]); err != nil {
		return nil, fmt.Errorf("freeze authority: %w", err)
	}

	return m, nil
}

func parseCOptionPubkey(b []byte) (*string, error) {
	switch tag := binary.LittleEndian.Uint32(b[0:4]); tag {
	case 0:
		return nil, nil
	case 1:
		key := base58.Encode(b[4:36])
		return &key, nil
	default:
		return nil, fmt.Errorf("invalid option tag %d", tag)
	}
}
