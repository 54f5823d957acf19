package tokendata

import (
	"sort"

	"github.com/shopspring/decimal"

	"tokenbrain/internal/solana"
)

// Concentration is the share of supply held by the largest accounts, 0..100.
type Concentration struct {
	Top1  *float64
	Top5  *float64 // requires at least 5 accounts
	Top10 *float64 // all accounts when fewer than 10 are known
}

var hundred = decimal.NewFromInt(100)

// HolderConcentration computes holder shares from the largest token accounts
// over uiSupply. It returns an empty Concentration when nothing can be computed.
func HolderConcentration(accounts []solana.TokenAccountBalance, uiSupply decimal.Decimal) Concentration {
	var c Concentration
	if len(accounts) == 0 || !uiSupply.IsPositive() {
		return c
	}

	amounts := make([]decimal.Decimal, 0, len(accounts))
	for _, a := range accounts {
		amounts = append(amounts, uiAmount(a))
	}
	sort.SliceStable(amounts, func(i, j int) bool {
		return amounts[i].GreaterThan(amounts[j])
	})

	share := func(n int) *float64 {
		sum := decimal.Zero
		for _, a := range amounts[:n] {
			sum = sum.Add(a)
		}
		v, _ := sum.Div(uiSupply).Mul(hundred).Round(2).Float64()
		return &v
	}

	c.Top1 = share(1)
	if len(amounts) >= 5 {
		c.Top5 = share(5)
	}
	c.Top10 = share(min(len(amounts), 10))
	return c
}

// uiAmount prefers the raw integer amount scaled by decimals and falls
// back to the node's float uiAmount.
func uiAmount(a solana.TokenAccountBalance) decimal.Decimal {
	if raw, err := decimal.NewFromString(a.Amount); err == nil {
		return raw.Shift(-int32(a.Decimals))
	}
	if a.UIAmount != nil {
		return decimal.NewFromFloat(*a.UIAmount)
	}
	return decimal.Zero
}
