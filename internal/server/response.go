package server

import (
	"time"

	"tokenbrain/internal/domain"
)

// AnalysisResponse is the JSON view of an analysis.
type AnalysisResponse struct {
	Address        string       `json:"address"`
	Name           *string      `json:"name"`
	Symbol         *string      `json:"symbol"`
	Risk           string       `json:"risk"`
	Recommendation string       `json:"recommendation"`
	Summary        string       `json:"summary"`
	Why            []string     `json:"why"`
	Explanation    string       `json:"explanation_source"`
	RuleReasons    []string     `json:"rule_reasons"`
	Completeness   Completeness `json:"completeness"`
	Facts          FactsView    `json:"facts"`
	Sources        []string     `json:"sources"`
	AnalyzedAt     time.Time    `json:"analyzed_at"`
}

// Completeness reports the share of known facts per group.
type Completeness struct {
	Safety  float64 `json:"safety"`
	Context float64 `json:"context"`
}

// FactsView lists the collected facts. Unknown values are null.
type FactsView struct {
	LiquidityUSD    *float64 `json:"liquidity_usd"`
	AgeDays         *float64 `json:"age_days"`
	Top1HolderPct   *float64 `json:"top1_holder_pct"`
	Top5HolderPct   *float64 `json:"top5_holder_pct"`
	Top10HolderPct  *float64 `json:"top10_holder_pct"`
	MintAuthority   *bool    `json:"mint_authority_present"`
	FreezeAuthority *bool    `json:"freeze_authority_present"`
	MetadataMutable *bool    `json:"metadata_mutable"`
	Decimals        *int     `json:"decimals"`
	Supply          *string  `json:"supply"`
}

// NewAnalysisResponse converts an analysis result.
func NewAnalysisResponse(r domain.AnalysisResult) AnalysisResponse {
	resp := AnalysisResponse{
		Address:        r.Address,
		Name:           r.Facts.Name,
		Symbol:         r.Facts.Symbol,
		Risk:           r.Verdict.Level.String(),
		Recommendation: r.Recommendation.String(),
		Summary:        r.Explanation.Summary,
		Why:            nonNil(r.Explanation.Reasons),
		Explanation:    string(r.Explanation.Source),
		RuleReasons:    nonNil(r.Verdict.Reasons),
		Completeness: Completeness{
			Safety:  r.Verdict.SafetyCompleteness,
			Context: r.Verdict.ContextCompleteness,
		},
		Facts: FactsView{
			LiquidityUSD:    r.Facts.LiquidityUSD,
			AgeDays:         r.Facts.AgeDays,
			Top1HolderPct:   r.Facts.Top1HolderPct,
			Top5HolderPct:   r.Facts.Top5HolderPct,
			Top10HolderPct:  r.Facts.Top10HolderPct,
			MintAuthority:   r.Facts.MintAuthorityPresent,
			FreezeAuthority: r.Facts.FreezeAuthorityPresent,
			MetadataMutable: r.Facts.MetadataMutable,
			Decimals:        r.Facts.Decimals,
		},
		Sources:    nonNil(r.Facts.Sources),
		AnalyzedAt: r.AnalyzedAt,
	}
	if r.Facts.Supply != nil {
		s := r.Facts.Supply.String()
		resp.Facts.Supply = &s
	}
	return resp
}

// HistoryItem is the JSON view of a stored analysis.
type HistoryItem struct {
	ID             string    `json:"id"`
	Address        string    `json:"address"`
	Symbol         *string   `json:"symbol"`
	Risk           string    `json:"risk"`
	Recommendation string    `json:"recommendation"`
	Summary        string    `json:"summary"`
	Why            []string  `json:"why"`
	AnalyzedAt     time.Time `json:"analyzed_at"`
}

func newHistoryItem(r *domain.AnalysisRecord) HistoryItem {
	return HistoryItem{
		ID:             r.ID.String(),
		Address:        r.Address,
		Symbol:         r.Symbol,
		Risk:           r.Level.String(),
		Recommendation: r.Recommendation.String(),
		Summary:        r.Summary,
		Why:            nonNil(r.Reasons),
		AnalyzedAt:     r.AnalyzedAt,
	}
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
