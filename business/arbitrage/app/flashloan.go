package app

import (
	"github.com/shopspring/decimal"

	"github.com/omniarb/engine/business/arbitrage/domain"
	pricingDomain "github.com/omniarb/engine/business/pricing/domain"
)

// FlashLoanOptimizer sizes a flash loan for a two-venue spread. The profit
// function is linear in volume while slippage grows with it, so there is a
// closed-form optimum from setting the derivative to zero:
//
//	V* = (spread - fee_rate) / (2k), k = impact_factor * (P_sell + P_buy)
//
// clamped to the pool's [v_min, v_max] loan window.
type FlashLoanOptimizer struct {
	minProfitBps         decimal.Decimal
	maxSlippage          decimal.Decimal // fraction, cap for dynamic slippage
	safetyMargin         decimal.Decimal
	slippageImpactFactor decimal.Decimal // per-dollar slippage growth
}

// NewFlashLoanOptimizer builds an optimizer. maxSlippage and safetyMargin
// are fractions; slippageImpactFactor scales how fast slippage grows per
// dollar of volume.
func NewFlashLoanOptimizer(minProfitBps, maxSlippage, safetyMargin, slippageImpactFactor decimal.Decimal) *FlashLoanOptimizer {
	return &FlashLoanOptimizer{
		minProfitBps:         minProfitBps,
		maxSlippage:          maxSlippage,
		safetyMargin:         safetyMargin,
		slippageImpactFactor: slippageImpactFactor,
	}
}

// OptimalVolume returns the profit-maximizing loan volume for the spread,
// constrained to the pool's loan window. A non-positive spread yields zero:
// there is no opportunity to size. A vanishing slippage coefficient yields
// the window maximum since profit then grows linearly with volume.
func (o *FlashLoanOptimizer) OptimalVolume(pool pricingDomain.LiquidityPool, priceSell, priceBuy decimal.Decimal) decimal.Decimal {
	spread := priceSell.Sub(priceBuy)
	if !spread.IsPositive() {
		return decimal.Zero
	}

	k := o.slippageImpactFactor.Mul(priceSell.Add(priceBuy))
	if k.LessThanOrEqual(decimal.New(1, -12)) {
		return pool.VMax()
	}

	optimal := spread.Sub(pool.FeeRate).Div(k.Mul(decimal.NewFromInt(2)))

	if optimal.LessThan(pool.VMin()) {
		return pool.VMin()
	}
	if optimal.GreaterThan(pool.VMax()) {
		return pool.VMax()
	}
	return optimal
}

// DynamicSlippage models execution slippage for a volume against one side's
// liquidity: base rate plus a quadratic volume impact plus half the current
// volatility, capped at the configured maximum. Zero liquidity falls back
// to a punitive 10% volume impact instead of dividing by zero.
func (o *FlashLoanOptimizer) DynamicSlippage(volume, baseSlippage, liquidity decimal.Decimal, volatility float64) decimal.Decimal {
	volumeImpact := decimal.RequireFromString("0.1")
	if liquidity.IsPositive() {
		ratio := volume.Div(liquidity)
		volumeImpact = ratio.Mul(one.Add(ratio))
	}

	total := baseSlippage.
		Add(volumeImpact).
		Add(decimal.NewFromFloat(volatility * 0.5))

	if total.GreaterThan(o.maxSlippage) {
		return o.maxSlippage
	}
	return total
}

// FlashLoanInput carries the market state for one buy/sell venue pair.
type FlashLoanInput struct {
	PriceSell decimal.Decimal
	PriceBuy  decimal.Decimal
	Pool      pricingDomain.LiquidityPool

	LiquiditySell decimal.Decimal
	LiquidityBuy  decimal.Decimal

	BaseSlippageSell decimal.Decimal
	BaseSlippageBuy  decimal.Decimal

	Volatility float64 // 0-1
	GasCost    decimal.Decimal

	// ExecutionProbability in (0, 1]; the zero value is treated as 1.
	ExecutionProbability float64
}

// Calculate runs the full flash loan analysis: optimal volume, per-side
// dynamic slippage, net profit after the flash fee, and a gas-adjusted
// profit discounted by the safety margin, execution probability and a
// volatility-driven time decay factor.
func (o *FlashLoanOptimizer) Calculate(in FlashLoanInput) *domain.FlashLoanResult {
	execProb := in.ExecutionProbability
	if execProb == 0 {
		execProb = 1.0
	}

	volume := o.OptimalVolume(in.Pool, in.PriceSell, in.PriceBuy)

	slipSell := o.DynamicSlippage(volume, in.BaseSlippageSell, in.LiquiditySell, in.Volatility)
	slipBuy := o.DynamicSlippage(volume, in.BaseSlippageBuy, in.LiquidityBuy, in.Volatility)

	effectiveSell := in.PriceSell.Mul(one.Sub(slipSell))
	effectiveBuy := in.PriceBuy.Mul(one.Add(slipBuy))

	grossProfit := decimal.Zero
	if effectiveBuy.IsPositive() {
		tokensBought := volume.Div(effectiveBuy)
		grossProfit = tokensBought.Mul(effectiveSell).Sub(volume)
	}

	flashFee := volume.Mul(in.Pool.FeeRate)
	netProfit := grossProfit.Sub(flashFee)
	gasAdjusted := netProfit.Sub(in.GasCost)

	profitBps := decimal.Zero
	if volume.IsPositive() {
		profitBps = netProfit.Div(volume).Mul(tenThousand)
	}

	timeDecay := 1.0 - in.Volatility*0.5
	if timeDecay < 0.5 {
		timeDecay = 0.5
	}

	discount := one.Sub(o.safetyMargin)
	adjusted := gasAdjusted.
		Mul(discount).
		Mul(decimal.NewFromFloat(execProb)).
		Mul(decimal.NewFromFloat(timeDecay))

	return &domain.FlashLoanResult{
		LoanVolume:           volume,
		OptimalVolume:        volume,
		MinLoan:              in.Pool.VMin(),
		MaxLoan:              in.Pool.VMax(),
		EffectiveBuyPrice:    effectiveBuy,
		EffectiveSellPrice:   effectiveSell,
		SlippageBuy:          slipBuy,
		SlippageSell:         slipSell,
		GrossProfit:          grossProfit,
		FlashFee:             flashFee,
		NetProfit:            netProfit,
		ProfitBps:            profitBps,
		IsProfitable:         adjusted.IsPositive() && profitBps.GreaterThanOrEqual(o.minProfitBps),
		ExecutionProbability: execProb,
		TimeDecayFactor:      timeDecay,
		GasAdjustedProfit:    gasAdjusted,
	}
}
