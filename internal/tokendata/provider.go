// Package tokendata fetches token facts from on-chain and mock sources
// and merges them into one domain.TokenFacts record.
package tokendata

import (
	"context"

	"tokenbrain/internal/domain"
)

// Provider fetches whatever facts a single source knows about a mint.
// Fields the source cannot determine are left nil.
type Provider interface {
	// Name identifies the provider in logs, metrics and TokenFacts.Sources.
	Name() string

	// Fetch returns facts for a validated mint address.
	Fetch(ctx context.Context, address string) (domain.TokenFacts, error)
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func ptr[T any](v T) *T {
	return &v
}
