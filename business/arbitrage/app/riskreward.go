package app

import (
	"github.com/shopspring/decimal"

	"github.com/omniarb/engine/business/arbitrage/domain"
)

// RiskAnalyzer turns an evaluated route into a full risk/reward profile:
// component risks, profit probability, expected value and a fractional
// Kelly position size.
type RiskAnalyzer struct{}

// NewRiskAnalyzer returns a stateless analyzer.
func NewRiskAnalyzer() *RiskAnalyzer {
	return &RiskAnalyzer{}
}

// Analyze computes the risk metrics for deploying the given capital on a
// route. Capital must be positive; a zero-capital call yields zeroed bps.
func (a *RiskAnalyzer) Analyze(route *domain.Route, capital decimal.Decimal) *domain.RiskMetrics {
	reward := route.ExpectedProfit

	// Component risks, each with its own worst-case multiplier.
	slippageRisk := capital.Mul(route.SlippageEstimate).Mul(decimal.NewFromInt(2))
	feeRisk := route.TotalFees.Mul(decimal.RequireFromString("1.5"))
	gasRisk := route.TotalGas.Mul(decimal.NewFromInt(2))
	liquidityRisk := capital.Mul(decimal.RequireFromString("0.01"))
	executionRisk := capital.
		Mul(decimal.NewFromFloat(route.ExecutionTimeMs / 1000)).
		Mul(decimal.RequireFromString("0.001"))

	totalRisk := slippageRisk.Add(feeRisk).Add(gasRisk).Add(liquidityRisk).Add(executionRisk)

	totalRiskBps := decimal.Zero
	if capital.IsPositive() {
		totalRiskBps = totalRisk.Div(capital).Mul(tenThousand)
	}

	rewardF := reward.InexactFloat64()
	riskF := totalRisk.InexactFloat64()

	rrRatio := 0.0
	if riskF > 0 {
		rrRatio = rewardF / riskF
	}

	probability := profitProbability(route.ExpectedProfitBps.InexactFloat64(), route.RiskScore)

	p := decimal.NewFromFloat(probability)
	expectedValue := reward.Mul(p).Sub(totalRisk.Mul(one.Sub(p)))

	breakEven := 0.0
	if sum := rewardF + riskF; sum > 0 {
		breakEven = riskF / sum
	}

	return &domain.RiskMetrics{
		ExpectedReward:       reward,
		ExpectedRewardBps:    route.ExpectedProfitBps,
		TotalRisk:            totalRisk,
		TotalRiskBps:         totalRiskBps,
		SlippageRisk:         slippageRisk,
		FeeRisk:              feeRisk,
		GasRisk:              gasRisk,
		LiquidityRisk:        liquidityRisk,
		ExecutionRisk:        executionRisk,
		RiskRewardRatio:      rrRatio,
		ProfitProbability:    probability,
		ExpectedValue:        expectedValue,
		SharpeLikeRatio:      rewardF / (riskF + 1e-10),
		MaxDrawdownEstimate:  totalRisk.Mul(decimal.RequireFromString("1.5")),
		BreakEvenSuccessRate: breakEven,
		KellyFraction:        kellyFraction(probability, rewardF, riskF),
	}
}

// profitProbability estimates the chance of profitable execution from the
// profit margin and the route risk score. 200 bps of margin maps to the
// 0.95 ceiling; the result never leaves [0.10, 0.95].
func profitProbability(profitBps, riskScore float64) float64 {
	base := profitBps / 200.0
	if base > 0.95 {
		base = 0.95
	}
	adjusted := base * (100 - riskScore) / 100
	return clampFloat(adjusted, 0.10, 0.95)
}

// kellyFraction computes the Kelly criterion stake f = (p*b - q)/b with
// b = win/loss, then applies a quarter-Kelly safety factor. The result is
// always in [0, 0.25].
func kellyFraction(winProb, winAmount, lossAmount float64) float64 {
	if lossAmount <= 0 {
		return 0
	}
	b := winAmount / lossAmount
	if b <= 0 {
		return 0
	}
	q := 1 - winProb
	kelly := (winProb*b - q) / b
	kelly = clampFloat(kelly, 0, 1)
	return clampFloat(kelly*0.25, 0, 0.25)
}
