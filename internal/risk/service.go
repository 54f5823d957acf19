// Package risk classifies token facts into a risk verdict with ordered heuristic rules.
package risk

import (
	"fmt"

	"tokenbrain/internal/domain"
)

// Fixed reason strings.
const (
	ReasonMintAuthority    = "Mint authority is still active: supply can be inflated"
	ReasonFreezeAuthority  = "Freeze authority is still active: holder accounts can be frozen"
	ReasonInsufficientData = "Insufficient data for a confident assessment"
)

// Tier groups rules by the level they can set.
type Tier string

const (
	TierHigh   Tier = "HIGH"
	TierMedium Tier = "MEDIUM"
)

// CriterionResult is the outcome of one rule.
type CriterionResult struct {
	Name      string
	Tier      Tier
	Threshold string
	Actual    string // "unknown" when the fact is missing
	Triggered bool
	Reason    string // set only when triggered
}

// Service evaluates token facts. It is stateless apart from its thresholds.
type Service struct {
	thresholds Thresholds
}

// NewService creates a risk service with the given thresholds.
func NewService(t Thresholds) *Service {
	return &Service{thresholds: t}
}

// NewDefaultService creates a risk service with DefaultThresholds.
func NewDefaultService() *Service {
	return NewService(DefaultThresholds())
}

// Evaluate classifies facts.
// HIGH if any HIGH rule triggers, else MEDIUM if any MEDIUM rule triggers,
// else LOW when the LOW gate passes, else MEDIUM with insufficient data.
func (s *Service) Evaluate(facts domain.TokenFacts) domain.RiskVerdict {
	checks := s.Checklist(facts)

	verdict := domain.RiskVerdict{
		SafetyCompleteness:  safetyCompleteness(facts),
		ContextCompleteness: contextCompleteness(facts),
	}

	if reasons := triggeredReasons(checks, TierHigh); len(reasons) > 0 {
		verdict.Level = domain.RiskHigh
		verdict.Reasons = reasons
		return verdict
	}

	if reasons := triggeredReasons(checks, TierMedium); len(reasons) > 0 {
		verdict.Level = domain.RiskMedium
		verdict.Reasons = reasons
		return verdict
	}

	if s.passesLowGate(facts) {
		verdict.Level = domain.RiskLow
		verdict.Reasons = []string{}
		return verdict
	}

	verdict.Level = domain.RiskMedium
	verdict.Reasons = []string{ReasonInsufficientData}
	return verdict
}

// Checklist evaluates every HIGH and MEDIUM rule in order.
func (s *Service) Checklist(facts domain.TokenFacts) []CriterionResult {
	t := s.thresholds
	checks := make([]CriterionResult, 0, 8)

	// HIGH tier
	checks = append(checks, floatCheck("Low liquidity", TierHigh,
		fmt.Sprintf("< $%.0f", t.LiquidityHighRisk), facts.LiquidityUSD, usd,
		func(v float64) bool { return v < t.LiquidityHighRisk },
		func(v float64) string {
			return fmt.Sprintf("Liquidity $%.0f is below $%.0f", v, t.LiquidityHighRisk)
		}))

	checks = append(checks, floatCheck("New token", TierHigh,
		fmt.Sprintf("< %.0f days", t.AgeHighRisk), facts.AgeDays, days,
		func(v float64) bool { return v < t.AgeHighRisk },
		func(v float64) string {
			return fmt.Sprintf("Token is only %.0f days old (under %.0f)", v, t.AgeHighRisk)
		}))

	checks = append(checks, floatCheck("Top-10 concentration", TierHigh,
		fmt.Sprintf("> %.0f%%", t.Top10HighRisk), facts.Top10HolderPct, pct,
		func(v float64) bool { return v > t.Top10HighRisk },
		func(v float64) string {
			return fmt.Sprintf("Top 10 holders control %.1f%% of supply (over %.0f%%)", v, t.Top10HighRisk)
		}))

	checks = append(checks, boolCheck("Mint authority", facts.MintAuthorityPresent, ReasonMintAuthority))
	checks = append(checks, boolCheck("Freeze authority", facts.FreezeAuthorityPresent, ReasonFreezeAuthority))

	checks = append(checks, floatCheck("Top-1 concentration", TierHigh,
		fmt.Sprintf("> %.0f%%", t.Top1HighRisk), facts.Top1HolderPct, pct,
		func(v float64) bool { return v > t.Top1HighRisk },
		func(v float64) string {
			return fmt.Sprintf("Largest holder controls %.1f%% of supply (over %.0f%%)", v, t.Top1HighRisk)
		}))

	// MEDIUM tier (inclusive ranges)
	checks = append(checks, floatCheck("Moderate liquidity", TierMedium,
		fmt.Sprintf("$%.0f..$%.0f", t.LiquidityHighRisk, t.LiquidityLowRisk), facts.LiquidityUSD, usd,
		func(v float64) bool { return v >= t.LiquidityHighRisk && v <= t.LiquidityLowRisk },
		func(v float64) string {
			return fmt.Sprintf("Liquidity $%.0f is moderate ($%.0f to $%.0f)", v, t.LiquidityHighRisk, t.LiquidityLowRisk)
		}))

	checks = append(checks, floatCheck("Young token", TierMedium,
		fmt.Sprintf("%.0f..%.0f days", t.AgeHighRisk, t.AgeLowRisk), facts.AgeDays, days,
		func(v float64) bool { return v >= t.AgeHighRisk && v <= t.AgeLowRisk },
		func(v float64) string {
			return fmt.Sprintf("Token is %.0f days old (%.0f to %.0f days)", v, t.AgeHighRisk, t.AgeLowRisk)
		}))

	return checks
}

// passesLowGate requires known-good liquidity and age, no known-bad safety
// field, and at least one concretely known-good safety field.
// Every comparison must hold positively so NaN never passes.
func (s *Service) passesLowGate(f domain.TokenFacts) bool {
	t := s.thresholds

	if f.LiquidityUSD == nil || !(*f.LiquidityUSD > t.LiquidityLowRisk) {
		return false
	}
	if f.AgeDays == nil || !(*f.AgeDays > t.AgeLowRisk) {
		return false
	}

	knownGood := 0
	if f.Top10HolderPct != nil {
		if !(*f.Top10HolderPct <= t.Top10HighRisk) {
			return false
		}
		knownGood++
	}
	if f.Top1HolderPct != nil {
		if !(*f.Top1HolderPct <= t.Top1HighRisk) {
			return false
		}
		knownGood++
	}
	if f.MintAuthorityPresent != nil {
		if *f.MintAuthorityPresent {
			return false
		}
		knownGood++
	}
	if f.FreezeAuthorityPresent != nil {
		if *f.FreezeAuthorityPresent {
			return false
		}
		knownGood++
	}

	return knownGood > 0
}

func triggeredReasons(checks []CriterionResult, tier Tier) []string {
	var reasons []string
	seen := make(map[string]struct{})
	for _, c := range checks {
		if c.Tier != tier || !c.Triggered {
			continue
		}
		if _, dup := seen[c.Reason]; dup {
			continue
		}
		seen[c.Reason] = struct{}{}
		reasons = append(reasons, c.Reason)
	}
	return reasons
}

func floatCheck(name string, tier Tier, threshold string, v *float64, format func(float64) string,
	trigger func(float64) bool, reason func(float64) string) CriterionResult {
	c := CriterionResult{Name: name, Tier: tier, Threshold: threshold, Actual: "unknown"}
	if v == nil {
		return c
	}
	c.Actual = format(*v)
	if trigger(*v) {
		c.Triggered = true
		c.Reason = reason(*v)
	}
	return c
}

func boolCheck(name string, v *bool, reason string) CriterionResult {
	c := CriterionResult{Name: name, Tier: TierHigh, Threshold: "present", Actual: "unknown"}
	if v == nil {
		return c
	}
	c.Actual = fmt.Sprintf("%t", *v)
	if *v {
		c.Triggered = true
		c.Reason = reason
	}
	return c
}

func usd(v float64) string  { return fmt.Sprintf("$%.0f", v) }
func days(v float64) string { return fmt.Sprintf("%.1f days", v) }
func pct(v float64) string  { return fmt.Sprintf("%.1f%%", v) }

func safetyCompleteness(f domain.TokenFacts) float64 {
	known := 0
	for _, ok := range []bool{
		f.MintAuthorityPresent != nil,
		f.FreezeAuthorityPresent != nil,
		f.Top1HolderPct != nil,
		f.Top10HolderPct != nil,
	} {
		if ok {
			known++
		}
	}
	return float64(known) / 4
}

func contextCompleteness(f domain.TokenFacts) float64 {
	known := 0
	if f.LiquidityUSD != nil {
		known++
	}
	if f.AgeDays != nil {
		known++
	}
	return float64(known) / 2
}
