package bot

import (
	"fmt"
	"html"
	"strings"
	"time"

	"tokenbrain/internal/domain"
)

var riskEmoji = map[domain.RiskLevel]string{
	domain.RiskHigh:   "🔴",
	domain.RiskMedium: "🟡",
	domain.RiskLow:    "🟢",
}

var recommendationEmoji = map[domain.Recommendation]string{
	domain.RecommendationAvoid:   "🚫",
	domain.RecommendationCaution: "⚠️",
	domain.RecommendationOK:      "👍",
}

var recommendationLabel = map[domain.Recommendation]string{
	domain.RecommendationAvoid:   "Avoid",
	domain.RecommendationCaution: "Caution",
	domain.RecommendationOK:      "OK",
}

// RiskBadge formats a compact badge like "🔴 HIGH".
func RiskBadge(level domain.RiskLevel) string {
	return strings.TrimSpace(riskEmoji[level] + " " + strings.ToUpper(level.String()))
}

// RecommendationBadge formats a compact badge like "🚫 Avoid".
func RecommendationBadge(r domain.Recommendation) string {
	label, ok := recommendationLabel[r]
	if !ok {
		label = r.String()
	}
	return strings.TrimSpace(recommendationEmoji[r] + " " + label)
}

// FormatResult renders an analysis as a Telegram HTML message.
// All dynamic text is escaped.
func FormatResult(r domain.AnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s <b>Risk: %s</b>\n", riskEmoji[r.Verdict.Level], strings.ToUpper(r.Verdict.Level.String()))
	b.WriteString(tokenLine(r.Facts.Symbol, r.Address))
	b.WriteString("\n\n")

	b.WriteString(html.EscapeString(r.Explanation.Summary))
	b.WriteString("\n")

	if len(r.Explanation.Reasons) > 0 {
		b.WriteString("\n<b>Why:</b>\n")
		for _, reason := range r.Explanation.Reasons {
			fmt.Fprintf(&b, "• %s\n", html.EscapeString(reason))
		}
	}

	fmt.Fprintf(&b, "\n<b>Recommendation:</b> %s", RecommendationBadge(r.Recommendation))

	return b.String()
}

// FormatHistory renders stored analyses, newest first.
func FormatHistory(records []*domain.AnalysisRecord) string {
	if len(records) == 0 {
		return MsgNoHistory
	}

	var b strings.Builder
	b.WriteString("<b>Your recent analyses:</b>\n")
	for _, rec := range records {
		fmt.Fprintf(&b, "\n%s %s\n%s · %s\n",
			RiskBadge(rec.Level),
			tokenLine(rec.Symbol, rec.Address),
			RecommendationBadge(rec.Recommendation),
			rec.AnalyzedAt.UTC().Format(time.DateTime+" UTC"),
		)
	}
	return strings.TrimRight(b.String(), "\n")
}

func tokenLine(symbol *string, address string) string {
	code := "<code>" + html.EscapeString(address) + "</code>"
	if symbol == nil || *symbol == "" {
		return code
	}
	return "<b>" + html.EscapeString(*symbol) + "</b> " + code
}
