package risk

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"tokenbrain/internal/domain"
)

func ptr[T any](v T) *T {
	return &v
}

func lowFacts() domain.TokenFacts {
	return domain.TokenFacts{
		Address:                "LowRiskMint",
		LiquidityUSD:           ptr(100_000.0),
		AgeDays:                ptr(60.0),
		Top10HolderPct:         ptr(40.0),
		Top1HolderPct:          ptr(20.0),
		MintAuthorityPresent:   ptr(false),
		FreezeAuthorityPresent: ptr(false),
	}
}

func countContaining(reasons []string, substr string) int {
	n := 0
	for _, r := range reasons {
		if strings.Contains(r, substr) {
			n++
		}
	}
	return n
}

func TestEvaluate_AllUnknown(t *testing.T) {
	svc := NewDefaultService()

	v := svc.Evaluate(domain.TokenFacts{Address: "mint"})

	if v.Level != domain.RiskMedium {
		t.Fatalf("expected MEDIUM, got %s", v.Level)
	}
	if len(v.Reasons) != 1 || v.Reasons[0] != ReasonInsufficientData {
		t.Errorf("expected insufficient data reason, got %v", v.Reasons)
	}
	if v.SafetyCompleteness != 0 || v.ContextCompleteness != 0 {
		t.Errorf("expected zero completeness, got %v/%v", v.SafetyCompleteness, v.ContextCompleteness)
	}
}

func TestEvaluate_LowExample(t *testing.T) {
	svc := NewDefaultService()

	v := svc.Evaluate(lowFacts())

	if v.Level != domain.RiskLow {
		t.Fatalf("expected LOW, got %s (%v)", v.Level, v.Reasons)
	}
	if len(v.Reasons) != 0 {
		t.Errorf("expected no reasons, got %v", v.Reasons)
	}
	if domain.RecommendationFor(v.Level) != domain.RecommendationOK {
		t.Errorf("expected OK recommendation")
	}
	if v.SafetyCompleteness != 1 || v.ContextCompleteness != 1 {
		t.Errorf("expected full completeness, got %v/%v", v.SafetyCompleteness, v.ContextCompleteness)
	}
}

func TestEvaluate_MintAuthorityAlwaysHigh(t *testing.T) {
	svc := NewDefaultService()

	variants := []domain.TokenFacts{
		{MintAuthorityPresent: ptr(true)},
		func() domain.TokenFacts { f := lowFacts(); f.MintAuthorityPresent = ptr(true); return f }(),
		{MintAuthorityPresent: ptr(true), LiquidityUSD: ptr(50_000.0), AgeDays: ptr(10.0)},
	}

	for i, f := range variants {
		v := svc.Evaluate(f)
		if v.Level != domain.RiskHigh {
			t.Errorf("variant %d: expected HIGH, got %s", i, v.Level)
		}
		if countContaining(v.Reasons, ReasonMintAuthority) != 1 {
			t.Errorf("variant %d: expected mint authority reason once, got %v", i, v.Reasons)
		}
	}
}

func TestEvaluate_LowLiquidityOnly(t *testing.T) {
	svc := NewDefaultService()

	v := svc.Evaluate(domain.TokenFacts{LiquidityUSD: ptr(15_000.0)})

	if v.Level != domain.RiskHigh {
		t.Fatalf("expected HIGH, got %s", v.Level)
	}
	if len(v.Reasons) != 1 {
		t.Fatalf("expected exactly one reason, got %v", v.Reasons)
	}
	if countContaining(v.Reasons, "Liquidity") != 1 {
		t.Errorf("expected one liquidity reason, got %v", v.Reasons)
	}
}

func TestEvaluate_HighReasonsInRuleOrder(t *testing.T) {
	svc := NewDefaultService()

	f := domain.TokenFacts{
		LiquidityUSD:           ptr(1_000.0),
		AgeDays:                ptr(2.0),
		Top10HolderPct:         ptr(90.0),
		MintAuthorityPresent:   ptr(true),
		FreezeAuthorityPresent: ptr(true),
		Top1HolderPct:          ptr(70.0),
	}

	v := svc.Evaluate(f)
	if v.Level != domain.RiskHigh {
		t.Fatalf("expected HIGH, got %s", v.Level)
	}

	wantPrefixes := []string{"Liquidity", "Token is only", "Top 10", "Mint authority", "Freeze authority", "Largest holder"}
	if len(v.Reasons) != len(wantPrefixes) {
		t.Fatalf("expected %d reasons, got %v", len(wantPrefixes), v.Reasons)
	}
	for i, p := range wantPrefixes {
		if !strings.HasPrefix(v.Reasons[i], p) {
			t.Errorf("reason %d: expected prefix %q, got %q", i, p, v.Reasons[i])
		}
	}
}

func TestEvaluate_HighIgnoresMediumReasons(t *testing.T) {
	svc := NewDefaultService()

	v := svc.Evaluate(domain.TokenFacts{LiquidityUSD: ptr(50_000.0), FreezeAuthorityPresent: ptr(true)})

	if v.Level != domain.RiskHigh {
		t.Fatalf("expected HIGH, got %s", v.Level)
	}
	if len(v.Reasons) != 1 || v.Reasons[0] != ReasonFreezeAuthority {
		t.Errorf("expected only freeze reason, got %v", v.Reasons)
	}
}

func TestEvaluate_Boundaries(t *testing.T) {
	svc := NewDefaultService()

	tests := []struct {
		name  string
		facts domain.TokenFacts
		want  domain.RiskLevel
	}{
		{"liquidity 20000 is medium", domain.TokenFacts{LiquidityUSD: ptr(20_000.0)}, domain.RiskMedium},
		{"liquidity 19999.99 is high", domain.TokenFacts{LiquidityUSD: ptr(19_999.99)}, domain.RiskHigh},
		{"liquidity 80000 is medium", domain.TokenFacts{LiquidityUSD: ptr(80_000.0), AgeDays: ptr(60.0), MintAuthorityPresent: ptr(false)}, domain.RiskMedium},
		{"age 7 is medium", domain.TokenFacts{AgeDays: ptr(7.0)}, domain.RiskMedium},
		{"age 30 is medium", domain.TokenFacts{AgeDays: ptr(30.0), LiquidityUSD: ptr(200_000.0), MintAuthorityPresent: ptr(false)}, domain.RiskMedium},
		{"age 6.9 is high", domain.TokenFacts{AgeDays: ptr(6.9)}, domain.RiskHigh},
		{"top10 60 is not high", domain.TokenFacts{Top10HolderPct: ptr(60.0)}, domain.RiskMedium},
		{"top10 60.1 is high", domain.TokenFacts{Top10HolderPct: ptr(60.1)}, domain.RiskHigh},
		{"top1 50 is not high", domain.TokenFacts{Top1HolderPct: ptr(50.0)}, domain.RiskMedium},
		{"top1 50.5 is high", domain.TokenFacts{Top1HolderPct: ptr(50.5)}, domain.RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := svc.Evaluate(tt.facts)
			if v.Level != tt.want {
				t.Errorf("expected %s, got %s (%v)", tt.want, v.Level, v.Reasons)
			}
		})
	}
}

func TestEvaluate_MediumReasons(t *testing.T) {
	svc := NewDefaultService()

	v := svc.Evaluate(domain.TokenFacts{LiquidityUSD: ptr(50_000.0), AgeDays: ptr(15.0)})

	if v.Level != domain.RiskMedium {
		t.Fatalf("expected MEDIUM, got %s", v.Level)
	}
	if len(v.Reasons) != 2 {
		t.Fatalf("expected 2 reasons, got %v", v.Reasons)
	}
	if !strings.HasPrefix(v.Reasons[0], "Liquidity") || !strings.HasPrefix(v.Reasons[1], "Token is") {
		t.Errorf("unexpected order: %v", v.Reasons)
	}
}

func TestEvaluate_LowGate(t *testing.T) {
	svc := NewDefaultService()

	t.Run("unknown safety fields with no known-good one", func(t *testing.T) {
		v := svc.Evaluate(domain.TokenFacts{LiquidityUSD: ptr(100_000.0), AgeDays: ptr(60.0)})
		if v.Level != domain.RiskMedium {
			t.Fatalf("expected MEDIUM, got %s", v.Level)
		}
		if len(v.Reasons) != 1 || v.Reasons[0] != ReasonInsufficientData {
			t.Errorf("expected insufficient data, got %v", v.Reasons)
		}
	})

	t.Run("one known-good safety field is enough", func(t *testing.T) {
		v := svc.Evaluate(domain.TokenFacts{
			LiquidityUSD:         ptr(100_000.0),
			AgeDays:              ptr(60.0),
			MintAuthorityPresent: ptr(false),
		})
		if v.Level != domain.RiskLow {
			t.Errorf("expected LOW, got %s (%v)", v.Level, v.Reasons)
		}
	})

	t.Run("age unknown blocks low", func(t *testing.T) {
		f := lowFacts()
		f.AgeDays = nil
		v := svc.Evaluate(f)
		if v.Level != domain.RiskMedium {
			t.Errorf("expected MEDIUM, got %s", v.Level)
		}
	})

	t.Run("NaN facts never pass", func(t *testing.T) {
		nan := math.NaN()
		for name, mutate := range map[string]func(*domain.TokenFacts){
			"liquidity": func(f *domain.TokenFacts) { f.LiquidityUSD = ptr(nan) },
			"age":       func(f *domain.TokenFacts) { f.AgeDays = ptr(nan) },
			"top10":     func(f *domain.TokenFacts) { f.Top10HolderPct = ptr(nan) },
			"top1":      func(f *domain.TokenFacts) { f.Top1HolderPct = ptr(nan) },
		} {
			f := lowFacts()
			mutate(&f)
			if v := svc.Evaluate(f); v.Level == domain.RiskLow {
				t.Errorf("%s NaN: expected not LOW, got %s", name, v.Level)
			}
		}
	})

	t.Run("liquidity unknown blocks low", func(t *testing.T) {
		f := lowFacts()
		f.LiquidityUSD = nil
		v := svc.Evaluate(f)
		if v.Level != domain.RiskMedium {
			t.Errorf("expected MEDIUM, got %s", v.Level)
		}
	})
}

func TestEvaluate_UnknownNeverEscalates(t *testing.T) {
	svc := NewDefaultService()

	f := domain.TokenFacts{Top10HolderPct: ptr(10.0)}
	v := svc.Evaluate(f)
	if v.Level == domain.RiskHigh {
		t.Errorf("unknown fields must not produce HIGH, got %v", v.Reasons)
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	svc := NewDefaultService()

	inputs := []domain.TokenFacts{
		{},
		lowFacts(),
		{LiquidityUSD: ptr(1.0), AgeDays: ptr(1.0), MintAuthorityPresent: ptr(true)},
		{LiquidityUSD: ptr(40_000.0), AgeDays: ptr(20.0)},
	}

	for i, f := range inputs {
		a := svc.Evaluate(f)
		b := svc.Evaluate(f)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("input %d: verdicts differ: %+v vs %+v", i, a, b)
		}
	}
}

func TestEvaluate_NegativeValuesAccepted(t *testing.T) {
	svc := NewDefaultService()

	v := svc.Evaluate(domain.TokenFacts{AgeDays: ptr(-3.0)})
	if v.Level != domain.RiskHigh {
		t.Errorf("expected negative age to be evaluated as-is (HIGH), got %s", v.Level)
	}
}

func TestEvaluate_CustomThresholds(t *testing.T) {
	th := DefaultThresholds()
	th.LiquidityHighRisk = 50_000
	th.AgeHighRisk = 20
	th.Top10HighRisk = 50
	svc := NewService(th)

	v := svc.Evaluate(domain.TokenFacts{LiquidityUSD: ptr(40_000.0)})
	if v.Level != domain.RiskHigh {
		t.Errorf("expected HIGH with custom liquidity threshold, got %s", v.Level)
	}

	v = svc.Evaluate(domain.TokenFacts{Top10HolderPct: ptr(55.0)})
	if v.Level != domain.RiskHigh {
		t.Errorf("expected HIGH with custom top10 threshold, got %s", v.Level)
	}
}

func TestChecklist(t *testing.T) {
	svc := NewDefaultService()

	checks := svc.Checklist(domain.TokenFacts{LiquidityUSD: ptr(10_000.0)})
	if len(checks) != 8 {
		t.Fatalf("expected 8 checks, got %d", len(checks))
	}

	if !checks[0].Triggered || checks[0].Actual != "$10000" {
		t.Errorf("unexpected liquidity check: %+v", checks[0])
	}
	for _, c := range checks[1:6] {
		if c.Actual != "unknown" || c.Triggered {
			t.Errorf("expected unknown untriggered check, got %+v", c)
		}
	}
}

func TestThresholds_Validate(t *testing.T) {
	if err := DefaultThresholds().Validate(); err != nil {
		t.Fatalf("defaults should be valid: %v", err)
	}

	bad := DefaultThresholds()
	bad.LiquidityLowRisk = 10
	bad.Top1HighRisk = 150
	err := bad.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "liquidity") || !strings.Contains(err.Error(), "top1") {
		t.Errorf("expected both problems reported, got %v", err)
	}
}

func TestLoadThresholds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "thresholds.yaml")
	content := "liquidity_high_risk_usd: 50000\nage_high_risk_days: 20\ntop10_high_risk_pct: 50\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	th, err := LoadThresholds(path)
	if err != nil {
		t.Fatalf("LoadThresholds: %v", err)
	}

	if th.LiquidityHighRisk != 50_000 || th.AgeHighRisk != 20 || th.Top10HighRisk != 50 {
		t.Errorf("file values not applied: %+v", th)
	}
	if th.LiquidityLowRisk != 80_000 || th.Top1HighRisk != 50 {
		t.Errorf("defaults not kept: %+v", th)
	}
}

func TestLoadThresholds_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("liquidity_high_risk_usd: 900000\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := LoadThresholds(path); err == nil {
		t.Error("expected error for high > low liquidity")
	}

	if _, err := LoadThresholds(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
