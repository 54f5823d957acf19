package explain

import "tokenbrain/internal/domain"

// Default reasons used when the verdict carries none.
const (
	fallbackHighReason   = "Critical issues detected"
	fallbackMediumReason = "Not enough data for a full assessment"
	fallbackLowReason    = "Key indicators look healthy"
)

// Fallback builds the deterministic explanation used when the LLM is
// unavailable. It is a pure function of the verdict.
func Fallback(verdict domain.RiskVerdict) domain.Explanation {
	var summary, defaultReason string
	switch verdict.Level {
	case domain.RiskHigh:
		summary = "High risk: critical issues found."
		defaultReason = fallbackHighReason
	case domain.RiskLow:
		summary = "Low risk: no critical issues found."
		defaultReason = fallbackLowReason
	default:
		summary = "Medium risk: proceed with caution."
		defaultReason = fallbackMediumReason
	}

	if verdict.SafetyCompleteness < 1 {
		summary += " Some data is unavailable."
	}

	reasons := limitReasons(verdict.Reasons)
	if len(reasons) == 0 {
		reasons = []string{defaultReason}
	}

	return domain.Explanation{
		Summary: summary,
		Reasons: reasons,
		Source:  domain.SourceFallback,
	}
}
