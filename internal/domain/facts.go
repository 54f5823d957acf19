package domain

import (
	"github.com/shopspring/decimal"
)

// TokenFacts is the canonical record of what is known about a token mint.
// A nil field means the value is unknown, which is distinct from zero or false.
type TokenFacts struct {
	Address string  // token mint address
	Name    *string // token name (nullable)
	Symbol  *string // token symbol (nullable)

	// Risk-relevant facts.
	LiquidityUSD           *float64 // USD value of tradable reserve
	AgeDays                *float64 // days since the mint was created
	Top10HolderPct         *float64 // share of supply held by ten largest accounts, 0..100
	Top1HolderPct          *float64 // share of supply held by the largest account, 0..100
	MintAuthorityPresent   *bool    // a key can still mint new supply
	FreezeAuthorityPresent *bool    // a key can freeze token accounts

	// Descriptive facts. Never used by risk rules.
	Top5HolderPct   *float64
	MetadataMutable *bool
	Decimals        *int
	Supply          *decimal.Decimal // ui supply (raw / 10^decimals)
	HolderAccounts  *int             // number of largest accounts inspected

	Sources []string // providers that contributed at least one field
}

// HasAnyFact reports whether at least one field beyond the address is known.
func (f TokenFacts) HasAnyFact() bool {
	return f.Name != nil ||
		f.Symbol != nil ||
		f.LiquidityUSD != nil ||
		f.AgeDays != nil ||
		f.Top10HolderPct != nil ||
		f.Top1HolderPct != nil ||
		f.MintAuthorityPresent != nil ||
		f.FreezeAuthorityPresent != nil ||
		f.Top5HolderPct != nil ||
		f.MetadataMutable != nil ||
		f.Decimals != nil ||
		f.Supply != nil ||
		f.HolderAccounts != nil
}

// Merge fills fields of f that are still unknown with known values from other.
// Known values in f are never overwritten.
func (f *TokenFacts) Merge(other TokenFacts, source string) {
	before := f.knownCount()

	mergeString(&f.Name, other.Name)
	mergeString(&f.Symbol, other.Symbol)
	mergeFloat(&f.LiquidityUSD, other.LiquidityUSD)
	mergeFloat(&f.AgeDays, other.AgeDays)
	mergeFloat(&f.Top10HolderPct, other.Top10HolderPct)
	mergeFloat(&f.Top1HolderPct, other.Top1HolderPct)
	mergeBool(&f.MintAuthorityPresent, other.MintAuthorityPresent)
	mergeBool(&f.FreezeAuthorityPresent, other.FreezeAuthorityPresent)
	mergeFloat(&f.Top5HolderPct, other.Top5HolderPct)
	mergeBool(&f.MetadataMutable, other.MetadataMutable)
	mergeInt(&f.Decimals, other.Decimals)
	mergeInt(&f.HolderAccounts, other.HolderAccounts)
	if f.Supply == nil && other.Supply != nil {
		v := *other.Supply
		f.Supply = &v
	}

	if source != "" && f.knownCount() > before {
		f.Sources = append(f.Sources, source)
	}
}

// DisplaySymbol returns the symbol, or fallback when unknown.
func (f TokenFacts) DisplaySymbol(fallback string) string {
	if f.Symbol != nil && *f.Symbol != "" {
		return *f.Symbol
	}
	return fallback
}

func (f TokenFacts) knownCount() int {
	n := 0
	for _, known := range []bool{
		f.Name != nil, f.Symbol != nil, f.LiquidityUSD != nil, f.AgeDays != nil,
		f.Top10HolderPct != nil, f.Top1HolderPct != nil, f.MintAuthorityPresent != nil,
		f.FreezeAuthorityPresent != nil, f.Top5HolderPct != nil, f.MetadataMutable != nil,
		f.Decimals != nil, f.Supply != nil, f.HolderAccounts != nil,
	} {
		if known {
			n++
		}
	}
	return n
}

func mergeString(dst **string, src *string) {
	if *dst == nil && src != nil {
		v := *src
		*dst = &v
	}
}

func mergeFloat(dst **float64, src *float64) {
	if *dst == nil && src != nil {
		v := *src
		*dst = &v
	}
}

func mergeBool(dst **bool, src *bool) {
	if *dst == nil && src != nil {
		v := *src
		*dst = &v
	}
}

func mergeInt(dst **int, src *int) {
	if *dst == nil && src != nil {
		v := *src
		*dst = &v
	}
}
