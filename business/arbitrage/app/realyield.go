package app

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/omniarb/engine/business/arbitrage/domain"
	pricingDomain "github.com/omniarb/engine/business/pricing/domain"
)

// RealYieldCalculator is the total-cost profitability engine. It runs a
// fixed pipeline over one trade: input validation, constant-product
// slippage, gross and net profit, then a pass/fail checklist whose first
// failing check becomes the abort reason. It also recommends a flash loan
// provider and an execution chain for the trade volume.
type RealYieldCalculator struct {
	minProfitBps        decimal.Decimal
	gasSafetyMultiplier decimal.Decimal
	maxTVLFraction      decimal.Decimal
	targetSlippage      decimal.Decimal

	flashSources []domain.FlashSourceOption // ascending fee order
	chains       []domain.ChainOption
}

// NewRealYieldCalculator builds the engine. flashSources must be sorted by
// ascending fee; chains are scanned in the given order for L2 candidates.
func NewRealYieldCalculator(
	minProfitBps, gasSafetyMultiplier, maxTVLFraction, targetSlippage decimal.Decimal,
	flashSources []domain.FlashSourceOption,
	chains []domain.ChainOption,
) *RealYieldCalculator {
	return &RealYieldCalculator{
		minProfitBps:        minProfitBps,
		gasSafetyMultiplier: gasSafetyMultiplier,
		maxTVLFraction:      maxTVLFraction,
		targetSlippage:      targetSlippage,
		flashSources:        flashSources,
		chains:              chains,
	}
}

// Evaluate prices one trade end to end. The buy leg pays P_buy*(1+S), the
// sell leg receives P_sell*(1-S), with S the constant-product slippage for
// the volume against the pool. Net profit subtracts every execution cost.
// Non-positive prices or volume produce an abort result, not an error.
func (c *RealYieldCalculator) Evaluate(
	priceSell, priceBuy, volume decimal.Decimal,
	pool pricingDomain.LiquidityPool,
	cost domain.ExecutionCost,
) *domain.YieldResult {
	if !priceSell.IsPositive() || !priceBuy.IsPositive() || !volume.IsPositive() {
		return c.abortResult(domain.AbortInvalidInput, priceSell, priceBuy, volume, cost)
	}

	slippage := pool.DynamicSlippage(volume)
	passedGuard := pool.IsTradeSizeSafe(volume, c.maxTVLFraction)

	slippageUp := one.Add(slippage)
	slippageDown := one.Sub(slippage)

	tokensBought := volume.Div(priceBuy.Mul(slippageUp))
	grossProfit := tokensBought.Mul(priceSell).Mul(slippageDown).Sub(volume)

	netProfit := grossProfit.Sub(cost.Total())
	passedGas := c.passesGasCheck(grossProfit, cost.GasCost)

	profitBps := netProfit.Div(volume).Mul(tenThousand)

	isProfitable := netProfit.IsPositive() &&
		passedGas &&
		passedGuard &&
		profitBps.GreaterThanOrEqual(c.minProfitBps)

	flashSource := domain.FlashSourceNone
	if src, ok := c.selectFlashSource(volume); ok {
		flashSource = src.Source
	}

	abortReason := ""
	if !isProfitable {
		switch {
		case !passedGas:
			abortReason = domain.AbortGasTooHigh
		case !passedGuard:
			abortReason = domain.AbortSlippageGuard
		case !netProfit.IsPositive():
			abortReason = domain.AbortNegativeProfit
		default:
			abortReason = domain.AbortLowProfitBps
		}
	}

	return &domain.YieldResult{
		Volume:              volume,
		BuyPrice:            priceBuy,
		SellPrice:           priceSell,
		SpreadPct:           spreadPct(priceSell, priceBuy),
		DynamicSlippage:     slippage,
		SlippageCost:        volume.Mul(slippage),
		TokensBought:        tokensBought,
		GrossProfit:         grossProfit,
		Cost:                cost,
		NetProfit:           netProfit,
		ProfitBps:           profitBps,
		PassedGasCheck:      passedGas,
		PassedSlippageGuard: passedGuard,
		IsProfitable:        isProfitable,
		AbortReason:         abortReason,
		FlashSource:         flashSource,
		Chain:               c.selectChain(volume, cost.GasCost),
	}
}

// EvaluateTriangular feeds a single-venue triangle through the same
// pipeline by re-expressing it as buying at 1.0 and selling at the cycle
// ratio. No bridge fee applies since all legs run on one venue.
func (c *RealYieldCalculator) EvaluateTriangular(
	quote domain.TriangularQuote,
	volume decimal.Decimal,
	pool pricingDomain.LiquidityPool,
	gasCost decimal.Decimal,
) *domain.YieldResult {
	if !quote.IsProfitable() {
		cost := domain.ExecutionCost{GasCost: gasCost}
		return c.abortResult(domain.AbortCycleBelowFees, quote.CycleRatio(), one, volume, cost)
	}

	flashFeeRate := decimal.RequireFromString("0.0009")
	if src, ok := c.selectFlashSource(volume); ok {
		flashFeeRate = src.FeeRate
	}

	cost := domain.ExecutionCost{
		GasCost:      gasCost,
		FlashLoanFee: volume.Mul(flashFeeRate),
	}

	return c.Evaluate(quote.CycleRatio(), one, volume, pool, cost)
}

// sweep fractions of the maximum safe volume tried by OptimizeTradeSize.
var sizingFractions = []string{"0.01", "0.02", "0.05", "0.10", "0.15", "0.20", "0.30", "0.50", "0.75", "1.0"}

// OptimizeTradeSize searches for the volume with the highest net profit.
// Slippage grows faster than linearly with size while gas is fixed, so net
// profit is not monotone in volume; a fixed geometric sweep over fractions
// of the slippage-bounded maximum keeps the search deterministic.
func (c *RealYieldCalculator) OptimizeTradeSize(
	priceSell, priceBuy decimal.Decimal,
	pool pricingDomain.LiquidityPool,
	gasCost, flashFeeRate decimal.Decimal,
) (decimal.Decimal, *domain.YieldResult) {
	maxVolume := pool.OptimalTradeSize(c.targetSlippage)
	if tvlBound := pool.TVL.Mul(c.maxTVLFraction); tvlBound.LessThan(maxVolume) {
		maxVolume = tvlBound
	}

	var (
		bestResult *domain.YieldResult
		bestVolume decimal.Decimal
	)

	for _, fraction := range sizingFractions {
		volume := maxVolume.Mul(decimal.RequireFromString(fraction))
		if !volume.IsPositive() {
			continue
		}

		cost := domain.ExecutionCost{
			GasCost:      gasCost,
			FlashLoanFee: volume.Mul(flashFeeRate),
		}
		result := c.Evaluate(priceSell, priceBuy, volume, pool, cost)

		if bestResult == nil || result.NetProfit.GreaterThan(bestResult.NetProfit) {
			bestResult = result
			bestVolume = volume
		}
	}

	if bestResult == nil {
		cost := domain.ExecutionCost{GasCost: gasCost}
		return decimal.Zero, c.abortResult(domain.AbortNoViableSize, priceSell, priceBuy, decimal.Zero, cost)
	}
	return bestVolume, bestResult
}

// Decide turns a yield result into the final execute/skip verdict.
func (c *RealYieldCalculator) Decide(result *domain.YieldResult) domain.Decision {
	switch {
	case !result.PassedGasCheck:
		return domain.Decision{Execute: false, Reason: "abort: " + result.AbortReason}
	case !result.PassedSlippageGuard:
		return domain.Decision{Execute: false, Reason: "reduce size: " + result.AbortReason}
	case !result.IsProfitable:
		return domain.Decision{Execute: false, Reason: "abort: " + result.AbortReason}
	}
	return domain.Decision{
		Execute: true,
		Reason: fmt.Sprintf("execute: net profit %s USD (%s bps)",
			result.NetProfit.StringFixed(2), result.ProfitBps.StringFixed(2)),
	}
}

// passesGasCheck rejects trades whose gross profit does not clear the gas
// cost by the safety multiplier. The boundary is inclusive.
func (c *RealYieldCalculator) passesGasCheck(grossProfit, gasCost decimal.Decimal) bool {
	return grossProfit.GreaterThanOrEqual(gasCost.Mul(c.gasSafetyMultiplier))
}

// selectFlashSource picks the first provider whose loan window contains the
// volume. Since the list is fee-ascending, the first match is the cheapest.
func (c *RealYieldCalculator) selectFlashSource(volume decimal.Decimal) (domain.FlashSourceOption, bool) {
	for _, src := range c.flashSources {
		if src.Accepts(volume) {
			return src, true
		}
	}
	return domain.FlashSourceOption{}, false
}

// selectChain prefers an L2 that both fits the volume and beats the current
// gas estimate. Mainnet only pays off above seven figures; Arbitrum is the
// general fallback.
func (c *RealYieldCalculator) selectChain(volume, currentGas decimal.Decimal) domain.Chain {
	for _, chain := range c.chains {
		if volume.GreaterThanOrEqual(chain.MinTradeSize) && chain.IsL2 && chain.AvgGasCost.LessThan(currentGas) {
			return chain.Chain
		}
	}
	if volume.GreaterThanOrEqual(decimal.NewFromInt(1_000_000)) {
		return domain.ChainMainnet
	}
	return domain.ChainArbitrum
}

func (c *RealYieldCalculator) abortResult(
	reason string,
	priceSell, priceBuy, volume decimal.Decimal,
	cost domain.ExecutionCost,
) *domain.YieldResult {
	return &domain.YieldResult{
		Volume:      volume,
		BuyPrice:    priceBuy,
		SellPrice:   priceSell,
		SpreadPct:   spreadPct(priceSell, priceBuy),
		Cost:        cost,
		AbortReason: reason,
	}
}

func spreadPct(priceSell, priceBuy decimal.Decimal) decimal.Decimal {
	if !priceBuy.IsPositive() {
		return decimal.Zero
	}
	return priceSell.Sub(priceBuy).Div(priceBuy).Mul(decimal.NewFromInt(100))
}
