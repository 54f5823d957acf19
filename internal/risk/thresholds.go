package risk

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Thresholds holds the numeric boundaries used by the rules.
type Thresholds struct {
	LiquidityHighRisk float64 `yaml:"liquidity_high_risk_usd"` // below: HIGH
	LiquidityLowRisk  float64 `yaml:"liquidity_low_risk_usd"`  // above: LOW candidate
	AgeHighRisk       float64 `yaml:"age_high_risk_days"`      // below: HIGH
	AgeLowRisk        float64 `yaml:"age_low_risk_days"`       // above: LOW candidate
	Top10HighRisk     float64 `yaml:"top10_high_risk_pct"`     // above: HIGH
	Top1HighRisk      float64 `yaml:"top1_high_risk_pct"`      // above: HIGH
}

// DefaultThresholds returns the production thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LiquidityHighRisk: 20_000,
		LiquidityLowRisk:  80_000,
		AgeHighRisk:       7,
		AgeLowRisk:        30,
		Top10HighRisk:     60,
		Top1HighRisk:      50,
	}
}

// Validate checks that the thresholds form consistent ranges.
func (t Thresholds) Validate() error {
	var errs []error
	if t.LiquidityHighRisk < 0 || t.LiquidityLowRisk < t.LiquidityHighRisk {
		errs = append(errs, fmt.Errorf("liquidity thresholds must satisfy 0 <= high (%v) <= low (%v)",
			t.LiquidityHighRisk, t.LiquidityLowRisk))
	}
	if t.AgeHighRisk < 0 || t.AgeLowRisk < t.AgeHighRisk {
		errs = append(errs, fmt.Errorf("age thresholds must satisfy 0 <= high (%v) <= low (%v)",
			t.AgeHighRisk, t.AgeLowRisk))
	}
	if t.Top10HighRisk <= 0 || t.Top10HighRisk > 100 {
		errs = append(errs, fmt.Errorf("top10 threshold out of range: %v", t.Top10HighRisk))
	}
	if t.Top1HighRisk <= 0 || t.Top1HighRisk > 100 {
		errs = append(errs, fmt.Errorf("top1 threshold out of range: %v", t.Top1HighRisk))
	}
	return errors.Join(errs...)
}

// LoadThresholds reads a YAML file over the defaults.
// Fields missing from the file keep their default value.
func LoadThresholds(path string) (Thresholds, error) {
	t := DefaultThresholds()

	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read thresholds file: %w", err)
	}

	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parse thresholds file: %w", err)
	}

	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("invalid thresholds: %w", err)
	}

	return t, nil
}
