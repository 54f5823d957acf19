package domain

// RiskLevel is the risk classification of a token.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// String returns the string representation of RiskLevel.
func (l RiskLevel) String() string {
	return string(l)
}

// IsValid checks if the level is a valid value.
func (l RiskLevel) IsValid() bool {
	return l == RiskHigh || l == RiskMedium || l == RiskLow
}

// RiskVerdict is the output of rule evaluation.
type RiskVerdict struct {
	Level   RiskLevel
	Reasons []string // triggered rules in evaluation order, no duplicates

	// Share of known safety fields (mint, freeze, top1, top10) and
	// context fields (liquidity, age). Informational only.
	SafetyCompleteness  float64
	ContextCompleteness float64
}

// Recommendation is the action derived from a risk level.
type Recommendation string

const (
	RecommendationAvoid   Recommendation = "avoid"
	RecommendationCaution Recommendation = "caution"
	RecommendationOK      Recommendation = "ok"
)

// String returns the string representation of Recommendation.
func (r Recommendation) String() string {
	return string(r)
}

// RecommendationFor maps a risk level to its recommendation.
// Unknown levels map to caution.
func RecommendationFor(level RiskLevel) Recommendation {
	switch level {
	case RiskHigh:
		return RecommendationAvoid
	case RiskLow:
		return RecommendationOK
	default:
		return RecommendationCaution
	}
}
