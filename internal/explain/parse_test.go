package explain

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenbrain/internal/domain"
)

var highVerdict = domain.RiskVerdict{
	Level:   domain.RiskHigh,
	Reasons: []string{"Liquidity $5000 is below $20000", "Mint authority is still active: supply can be inflated"},
}

func TestParseResponse_FencedJSON(t *testing.T) {
	text := "Here you go:\n```json\n{\"risk\":\"HIGH\",\"summary\":\"Risky.\",\"why\":[\"thin liquidity\",\" \"],\"recommendation\":\"avoid\"}\n```"

	exp, err := ParseResponse(text, highVerdict)
	require.NoError(t, err)

	assert.Equal(t, "Risky.", exp.Summary)
	assert.Equal(t, []string{"thin liquidity"}, exp.Reasons)
	assert.Equal(t, domain.SourceLLM, exp.Source)
}

func TestParseResponse_BareFence(t *testing.T) {
	text := "```\n{\"risk\":\"high\",\"summary\":\"ok\"}\n```"

	exp, err := ParseResponse(text, highVerdict)
	require.NoError(t, err)

	assert.Equal(t, "ok", exp.Summary)
	assert.Equal(t, highVerdict.Reasons, exp.Reasons, "missing why falls back to verdict reasons")
}

func TestParseResponse_PlainText(t *testing.T) {
	exp, err := ParseResponse("  This token is risky because liquidity is thin.  ", highVerdict)
	require.NoError(t, err)

	assert.Equal(t, "This token is risky because liquidity is thin.", exp.Summary)
	assert.Equal(t, domain.SourceLLM, exp.Source)
}

func TestParseResponse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{"empty", "   ", ErrEmptyResponse},
		{"empty fence", "```json\n```", ErrEmptyResponse},
		{"broken json", `{"risk": "high", "summary": `, ErrInvalidJSON},
		{"risk mismatch", `{"risk":"low","summary":"Safe."}`, ErrRiskMismatch},
		{"empty summary", `{"risk":"high","summary":"  "}`, ErrEmptySummary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResponse(tt.text, highVerdict)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseResponse_Limits(t *testing.T) {
	long := strings.Repeat("ж", 600)
	why := make([]string, 8)
	for i := range why {
		why[i] = `"` + strings.Repeat("r", 250) + `"`
	}
	text := `{"risk":"high","summary":"` + long + `","why":[` + strings.Join(why, ",") + `]}`

	exp, err := ParseResponse(text, highVerdict)
	require.NoError(t, err)

	assert.Equal(t, MaxSummaryRunes, utf8.RuneCountInString(exp.Summary))
	require.Len(t, exp.Reasons, MaxReasons)
	for _, r := range exp.Reasons {
		assert.Equal(t, MaxReasonRunes, utf8.RuneCountInString(r))
	}
}

func TestParseResponse_WhyAsString(t *testing.T) {
	exp, err := ParseResponse(`{"risk":"high","summary":"s","why":"single reason"}`, highVerdict)
	require.NoError(t, err)
	assert.Equal(t, []string{"single reason"}, exp.Reasons)
}

func TestFallback(t *testing.T) {
	verdict := domain.RiskVerdict{
		Level:              domain.RiskHigh,
		Reasons:            []string{"a", "b", "c", "d", "e", "f"},
		SafetyCompleteness: 1,
	}

	exp := Fallback(verdict)

	assert.Equal(t, "High risk: critical issues found.", exp.Summary)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, exp.Reasons)
	assert.Equal(t, domain.SourceFallback, exp.Source)
	assert.Equal(t, exp, Fallback(verdict), "fallback must be deterministic")
}

func TestFallback_DefaultsAndCompleteness(t *testing.T) {
	tests := []struct {
		level   domain.RiskLevel
		summary string
		reason  string
	}{
		{domain.RiskHigh, "High risk: critical issues found. Some data is unavailable.", fallbackHighReason},
		{domain.RiskMedium, "Medium risk: proceed with caution. Some data is unavailable.", fallbackMediumReason},
		{domain.RiskLow, "Low risk: no critical issues found. Some data is unavailable.", fallbackLowReason},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			exp := Fallback(domain.RiskVerdict{Level: tt.level, SafetyCompleteness: 0.5})
			assert.Equal(t, tt.summary, exp.Summary)
			assert.Equal(t, []string{tt.reason}, exp.Reasons)
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	name := "Bonk"
	liq := 5000.0
	mint := true
	facts := domain.TokenFacts{Address: "addr", Name: &name, LiquidityUSD: &liq, MintAuthorityPresent: &mint}
	verdict := domain.RiskVerdict{Level: domain.RiskHigh, Reasons: []string{"r1"}, SafetyCompleteness: 0.25}

	p := BuildPrompt(facts, verdict)

	assert.Equal(t, SystemPrompt, p.System)
	assert.Equal(t, "addr", p.Address)
	assert.Equal(t, domain.RiskHigh, p.Level)
	assert.Equal(t, []string{"r1"}, p.Factors)
	assert.Contains(t, p.User, `"liquidity_usd": 5000`)
	assert.Contains(t, p.User, `"age_days": null`)
	assert.Contains(t, p.User, `"mint_authority_exists": true`)
	assert.Contains(t, p.User, `"symbol": "UNKNOWN"`)
	assert.Contains(t, p.User, `"safety_completeness": "25%"`)
	assert.Contains(t, p.User, "already computed: high")
}

func TestBuildPrompt_NoReasonsIsEmptyList(t *testing.T) {
	p := BuildPrompt(domain.TokenFacts{}, domain.RiskVerdict{Level: domain.RiskLow, Reasons: []string{}})
	assert.Contains(t, p.User, `"factors": []`)
}
