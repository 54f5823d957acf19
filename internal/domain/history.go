package domain

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisRecord is a stored analysis, kept for /history and the HTTP API.
type AnalysisRecord struct {
	ID                uuid.UUID
	ChatID            int64 // 0 for analyses not issued from a chat
	UserID            int64
	Address           string
	Symbol            *string
	Level             RiskLevel
	Recommendation    Recommendation
	Summary           string
	Reasons           []string
	ExplanationSource ExplanationSource
	Sources           []string
	AnalyzedAt        time.Time
}

// NewAnalysisRecord builds a record with a fresh id from an analysis result.
func NewAnalysisRecord(r AnalysisResult, chatID, userID int64) *AnalysisRecord {
	rec := &AnalysisRecord{
		ID:                uuid.New(),
		ChatID:            chatID,
		UserID:            userID,
		Address:           r.Address,
		Level:             r.Verdict.Level,
		Recommendation:    r.Recommendation,
		Summary:           r.Explanation.Summary,
		Reasons:           append([]string(nil), r.Explanation.Reasons...),
		ExplanationSource: r.Explanation.Source,
		Sources:           append([]string(nil), r.Facts.Sources...),
		AnalyzedAt:        r.AnalyzedAt,
	}
	if r.Facts.Symbol != nil {
		s := *r.Facts.Symbol
		rec.Symbol = &s
	}
	return rec
}
