package explain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"tokenbrain/internal/domain"
)

// Output limits.
const (
	MaxSummaryRunes = 500
	MaxReasons      = 5
	MaxReasonRunes  = 200
)

// Response validation errors.
var (
	ErrEmptyResponse = errors.New("empty llm response")
	ErrInvalidJSON   = errors.New("invalid llm json")
	ErrRiskMismatch  = errors.New("llm risk disagrees with verdict")
	ErrEmptySummary  = errors.New("llm summary is empty")
)

type llmResponse struct {
	Risk           string          `json:"risk"`
	Summary        string          `json:"summary"`
	Why            json.RawMessage `json:"why"`
	Recommendation string          `json:"recommendation"`
}

// ParseResponse validates model output against the verdict.
// JSON output (optionally fenced) must agree on the risk level and carry
// a summary. Plain prose is accepted as the summary.
func ParseResponse(text string, verdict domain.RiskVerdict) (domain.Explanation, error) {
	body := strings.TrimSpace(stripFences(text))
	if body == "" {
		return domain.Explanation{}, ErrEmptyResponse
	}

	if !strings.HasPrefix(body, "{") {
		return domain.Explanation{
			Summary: truncateRunes(body, MaxSummaryRunes),
			Reasons: limitReasons(verdict.Reasons),
			Source:  domain.SourceLLM,
		}, nil
	}

	var resp llmResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return domain.Explanation{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	if risk := strings.ToLower(strings.TrimSpace(resp.Risk)); risk != "" && risk != verdict.Level.String() {
		return domain.Explanation{}, fmt.Errorf("%w: got %q, want %q", ErrRiskMismatch, risk, verdict.Level)
	}

	summary := strings.TrimSpace(resp.Summary)
	if summary == "" {
		return domain.Explanation{}, ErrEmptySummary
	}

	reasons := parseWhy(resp.Why)
	if len(reasons) == 0 {
		reasons = verdict.Reasons
	}

	return domain.Explanation{
		Summary: truncateRunes(summary, MaxSummaryRunes),
		Reasons: limitReasons(reasons),
		Source:  domain.SourceLLM,
	}, nil
}

// stripFences returns the content of the first ``` block, if any.
func stripFences(s string) string {
	if i := strings.Index(s, "```json"); i >= 0 {
		s = s[i+len("```json"):]
	} else if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
	} else {
		return s
	}
	if j := strings.Index(s, "```"); j >= 0 {
		s = s[:j]
	}
	return s
}

// parseWhy accepts a list of strings or a single string.
func parseWhy(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		out := list[:0]
		for _, r := range list {
			if r = strings.TrimSpace(r); r != "" {
				out = append(out, r)
			}
		}
		return out
	}

	var one string
	if err := json.Unmarshal(raw, &one); err == nil && strings.TrimSpace(one) != "" {
		return []string{strings.TrimSpace(one)}
	}
	return nil
}

func limitReasons(reasons []string) []string {
	n := min(len(reasons), MaxReasons)
	out := make([]string, 0, n)
	for _, r := range reasons[:n] {
		out = append(out, truncateRunes(r, MaxReasonRunes))
	}
	return out
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
