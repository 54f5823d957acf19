package explain

import (
	"context"
	"encoding/json"

	"tokenbrain/internal/domain"
)

type mockTemplate struct {
	summaries [3]string
	why       [3][]string
}

var mockTemplates = map[domain.RiskLevel]mockTemplate{
	domain.RiskHigh: {
		summaries: [3]string{
			"The token looks very risky: thin liquidity, short history and concentrated holders.",
			"This token carries high risk. The main problems are insufficient liquidity and centralized ownership.",
			"Extremely risky token. Several red flags point to a possible scam.",
		},
		why: [3][]string{
			{"Liquidity is below a safe threshold", "The contract was created recently", "Top 10 holders control most of the supply"},
			{"Not enough liquidity for a safe exit", "Too new to have any track record", "Large holders can dump"},
			{"Low trading volume", "No verified team", "Centralized token distribution"},
		},
	},
	domain.RiskMedium: {
		summaries: [3]string{
			"There are open questions: moderate liquidity and average holder concentration. Be careful.",
			"The token has mixed indicators. Some metrics raise questions, but no critical risks were found.",
			"Medium risk. The token is not ideal, but it does not look like an outright scam.",
		},
		why: [3][]string{
			{"Liquidity is in the middle range", "The token is relatively new", "Holder distribution needs attention"},
			{"Moderate trading volume", "The project is still developing", "Metrics have room to improve"},
			{"Average liquidity", "Short project history", "Average community signals"},
		},
	},
	domain.RiskLow: {
		summaries: [3]string{
			"The token structure looks stable, with good liquidity and distribution.",
			"The token shows healthy indicators: enough liquidity and decentralized ownership.",
			"A relatively safe token with good metrics. The main risks are minimized.",
		},
		why: [3][]string{
			{"High liquidity", "The token has existed long enough", "Even distribution among holders"},
			{"Enough volume for safe trading", "Proven project history", "Decentralized ownership"},
			{"Stable liquidity", "Mature project", "Active community"},
		},
	},
}

// MockLLM answers with canned JSON, picking one of three variants per level
// from the address. Verdict factors are used as reasons when present.
type MockLLM struct{}

// NewMockLLM creates a mock LLM.
func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

// Name returns "mock".
func (m *MockLLM) Name() string { return "mock" }

// Generate returns the JSON contract response.
func (m *MockLLM) Generate(ctx context.Context, p Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tpl, ok := mockTemplates[p.Level]
	if !ok {
		tpl = mockTemplates[domain.RiskMedium]
	}

	variant := 0
	for _, c := range p.Address {
		variant += int(c)
	}
	variant %= 3

	summary := tpl.summaries[variant]
	if p.Name != nil && *p.Name != "" {
		summary = *p.Name + ": " + summary
	}

	why := p.Factors
	if len(why) == 0 {
		why = tpl.why[variant]
	}

	out, err := json.Marshal(llmResponse{
		Risk:           p.Level.String(),
		Summary:        summary,
		Why:            rawJSON(why),
		Recommendation: string(domain.RecommendationFor(p.Level)),
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func rawJSON(v []string) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}

var _ LLMProvider = (*MockLLM)(nil)
