package domain

import "time"

// ExplanationSource tells whether an explanation came from the language model.
type ExplanationSource string

const (
	SourceLLM      ExplanationSource = "LLM"
	SourceFallback ExplanationSource = "FALLBACK"
)

// Explanation is the human-readable part of an analysis.
type Explanation struct {
	Summary string
	Reasons []string // at most 5, phrased for the reader
	Source  ExplanationSource
}

// AnalysisResult is the final output of one analysis.
type AnalysisResult struct {
	Address        string
	Facts          TokenFacts
	Verdict        RiskVerdict
	Recommendation Recommendation
	Explanation    Explanation
	AnalyzedAt     time.Time
}
