package explain

import (
	"encoding/json"
	"fmt"

	"tokenbrain/internal/domain"
)

// SystemPrompt constrains the model to the supplied factors.
const SystemPrompt = `You are a crypto token risk analyst.

ANTI-HALLUCINATION CONTRACT:
1. Use ONLY the supplied data and factors[].
2. Do NOT add new reasons. Every item of "why" must come from factors[].
3. A null value means unknown. Say so when it matters.
4. Do NOT guess about data that is missing.
5. The risk level is ALREADY computed. Do NOT change it.
6. Answer with a single JSON object and nothing else.

RESPONSE FORMAT:
{
  "risk": "high" | "medium" | "low",
  "summary": "short explanation based on factors (1-2 sentences, at most 200 characters)",
  "why": ["reason from factors 1", "reason from factors 2"],
  "recommendation": "avoid" | "caution" | "ok"
}

If data is insufficient, explain that in the summary. Be brief.`

type promptToken struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

type promptSignals struct {
	LiquidityUSD           *float64 `json:"liquidity_usd"`
	AgeDays                *float64 `json:"age_days"`
	Top10HolderPct         *float64 `json:"top10_holders_percent"`
	Top1HolderPct          *float64 `json:"top1_holder_percent"`
	MintAuthorityPresent   *bool    `json:"mint_authority_exists"`
	FreezeAuthorityPresent *bool    `json:"freeze_authority_exists"`
	MetadataMutable        *bool    `json:"metadata_mutable"`
}

type promptData struct {
	Token               promptToken   `json:"token"`
	RiskLevel           string        `json:"risk_level"`
	SafetyCompleteness  string        `json:"safety_completeness"`
	ContextCompleteness string        `json:"context_completeness"`
	RiskSignals         promptSignals `json:"risk_signals"`
	Factors             []string      `json:"factors"`
}

// BuildPrompt renders the system contract and the JSON user payload.
func BuildPrompt(facts domain.TokenFacts, verdict domain.RiskVerdict) Prompt {
	factors := verdict.Reasons
	if factors == nil {
		factors = []string{}
	}

	data := promptData{
		Token: promptToken{
			Name:   deref(facts.Name, "Unknown"),
			Symbol: deref(facts.Symbol, "UNKNOWN"),
		},
		RiskLevel:           verdict.Level.String(),
		SafetyCompleteness:  fmt.Sprintf("%.0f%%", verdict.SafetyCompleteness*100),
		ContextCompleteness: fmt.Sprintf("%.0f%%", verdict.ContextCompleteness*100),
		RiskSignals: promptSignals{
			LiquidityUSD:           facts.LiquidityUSD,
			AgeDays:                facts.AgeDays,
			Top10HolderPct:         facts.Top10HolderPct,
			Top1HolderPct:          facts.Top1HolderPct,
			MintAuthorityPresent:   facts.MintAuthorityPresent,
			FreezeAuthorityPresent: facts.FreezeAuthorityPresent,
			MetadataMutable:        facts.MetadataMutable,
		},
		Factors: factors,
	}

	// Marshalling plain structs cannot fail.
	payload, _ := json.MarshalIndent(data, "", "  ")

	user := fmt.Sprintf(`Analyze this token.

DATA:
%s

IMPORTANT:
- The risk level is already computed: %s
- Use ONLY factors[] for "why"
- null in risk_signals means unknown

Answer in JSON.`, payload, verdict.Level)

	return Prompt{
		System:  SystemPrompt,
		User:    user,
		Address: facts.Address,
		Name:    facts.Name,
		Level:   verdict.Level,
		Factors: factors,
	}
}

func deref(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
