package bot

import (
	"strings"
	"testing"
	"time"

	"tokenbrain/internal/domain"
)

func TestFormatResult_EscapesHTML(t *testing.T) {
	sym := "<b>X</b>"
	r := domain.AnalysisResult{
		Address:        usdc,
		Facts:          domain.TokenFacts{Symbol: &sym},
		Verdict:        domain.RiskVerdict{Level: domain.RiskHigh},
		Recommendation: domain.RecommendationAvoid,
		Explanation: domain.Explanation{
			Summary: "Risky & <new>",
			Reasons: []string{"a < b", "c > d"},
		},
	}

	got := FormatResult(r)

	for _, want := range []string{
		"🔴 <b>Risk: HIGH</b>",
		"<b>&lt;b&gt;X&lt;/b&gt;</b> <code>" + usdc + "</code>",
		"Risky &amp; &lt;new&gt;",
		"• a &lt; b",
		"• c &gt; d",
		"<b>Recommendation:</b> 🚫 Avoid",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in:\n%s", want, got)
		}
	}
}

func TestFormatResult_NoReasons(t *testing.T) {
	r := domain.AnalysisResult{
		Address:        usdc,
		Verdict:        domain.RiskVerdict{Level: domain.RiskMedium},
		Recommendation: domain.RecommendationCaution,
		Explanation:    domain.Explanation{Summary: "Mixed"},
	}

	got := FormatResult(r)
	if strings.Contains(got, "<b>Why:</b>") {
		t.Error("reasons block must be omitted when empty")
	}
	if !strings.Contains(got, "🟡 <b>Risk: MEDIUM</b>") || !strings.Contains(got, "⚠️ Caution") {
		t.Errorf("unexpected output:\n%s", got)
	}
	if !strings.Contains(got, "<code>"+usdc+"</code>") {
		t.Error("expected bare address when symbol is unknown")
	}
}

func TestFormatHistory(t *testing.T) {
	if FormatHistory(nil) != MsgNoHistory {
		t.Error("expected MsgNoHistory for empty history")
	}

	records := []*domain.AnalysisRecord{{
		Address:        usdc,
		Level:          domain.RiskLow,
		Recommendation: domain.RecommendationOK,
		AnalyzedAt:     time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
	}}

	got := FormatHistory(records)
	for _, want := range []string{"🟢 LOW", "👍 OK", "2024-05-06 07:08:09 UTC"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in:\n%s", want, got)
		}
	}
}

func TestBadges(t *testing.T) {
	if got := RiskBadge(domain.RiskLevel("odd")); got != "ODD" {
		t.Errorf("unknown level badge = %q", got)
	}
	if got := RecommendationBadge(domain.Recommendation("hold")); got != "hold" {
		t.Errorf("unknown recommendation badge = %q", got)
	}
}
