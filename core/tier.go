package core

import (
	"github.com/cardiorisk/cardiorisk/schema"
	"github.com/shopspring/decimal"
)

// RoundPercent converts a probability to a percent rounded half away from
// zero to one decimal. The value is rounded in decimal so 0.2345 becomes 23.5.
func RoundPercent(probability float64) float64 {
	return decimal.NewFromFloat(probability).Shift(2).Round(1).InexactFloat64()
}

// TierFor maps a rounded percent to its risk tier.
func TierFor(percent float64) schema.RiskTier {
	switch {
	case percent >= schema.HighThreshold:
		return schema.HighRisk
	case percent >= schema.ModerateThreshold:
		return schema.ModerateRisk
	default:
		return schema.LowRisk
	}
}

// NewRiskResult builds a result from a positive-class probability.
func NewRiskResult(probability float64) schema.RiskResult {
	percent := RoundPercent(probability)
	return schema.RiskResult{Probability: probability, Percent: percent, Tier: TierFor(percent)}
}
