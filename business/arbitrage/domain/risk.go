package domain

import "github.com/shopspring/decimal"

// RiskMetrics is the full risk/reward profile of a candidate trade.
//
// Monetary amounts are decimals; probabilities and ratios are plain floats
// since they feed position sizing rather than settlement.
type RiskMetrics struct {
	ExpectedReward    decimal.Decimal
	ExpectedRewardBps decimal.Decimal
	TotalRisk         decimal.Decimal
	TotalRiskBps      decimal.Decimal

	// Individual risk components, in USD.
	SlippageRisk  decimal.Decimal
	FeeRisk       decimal.Decimal
	GasRisk       decimal.Decimal
	LiquidityRisk decimal.Decimal
	ExecutionRisk decimal.Decimal

	RiskRewardRatio   float64
	ProfitProbability float64 // clamped to [0.10, 0.95]
	ExpectedValue     decimal.Decimal
	SharpeLikeRatio   float64

	MaxDrawdownEstimate  decimal.Decimal
	BreakEvenSuccessRate float64
	KellyFraction        float64 // quarter-Kelly, clamped to [0, 0.25]
}

// IsPositiveExpectancy reports whether the trade has positive expected value.
func (m *RiskMetrics) IsPositiveExpectancy() bool {
	return m.ExpectedValue.IsPositive()
}
